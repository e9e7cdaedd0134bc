// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package probe asks the local OpenGL driver which context it actually
// provides for a requested api, version and profile. Context creation needs
// the glfw build tag and cgo.
package probe

import (
	"fmt"

	"github.com/db47h/glreg/registry"
)

// Request describes the context to ask for.
type Request struct {
	API        string // "gl" or "gles2"
	Version    string
	Profile    string   // "core", "compatibility" or empty
	Extensions []string // extensions to check for
}

// Result is the context obtained from the driver.
type Result struct {
	API        string
	Version    registry.Version
	Profile    string
	Renderer   string   // glfw version string
	Extensions []string // requested extensions the context supports
}

// Target returns a resolve target matching the obtained context, using the
// supported extensions.
func (r *Result) Target(withDeps bool) registry.Target {
	return registry.Target{
		API:              r.API,
		Profile:          r.Profile,
		Version:          r.Version.String(),
		Extensions:       r.Extensions,
		WithDependencies: withDeps,
	}
}

func (req Request) validate() (registry.Version, error) {
	switch req.API {
	case "gl", "gles1", "gles2":
	default:
		return registry.Version{}, fmt.Errorf("probe: unsupported api %q", req.API)
	}
	switch req.Profile {
	case "", "core", "compatibility":
	default:
		return registry.Version{}, fmt.Errorf("probe: unknown profile %q", req.Profile)
	}
	if req.API != "gl" && req.Profile != "" {
		return registry.Version{}, fmt.Errorf("probe: profiles only apply to gl, not %s", req.API)
	}
	return registry.ParseVersion(req.Version)
}
