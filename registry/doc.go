// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry reads the Khronos OpenGL API registry (gl.xml) into an
// immutable in-memory model and resolves the types, enums and commands of a
// given api profile.
//
// A typical session:
//
//	reg, err := registry.LoadFromPath("gl.xml")
//	if err != nil {
//		// ...
//	}
//	p, err := reg.Resolve(registry.Target{API: "gl", Profile: "core", Version: "3.3"})
//
// Data integrity problems in the document, such as references to unknown
// names, do not prevent loading. They are reported by Registry.Warnings and
// ProfileResult.Warnings.
package registry
