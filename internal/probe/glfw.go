// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build glfw
// +build glfw

package probe

import (
	"fmt"

	"github.com/go-gl/glfw/v3.2/glfw"
)

// Context creates a hidden window with a context matching req, reads back
// the context attributes and checks the requested extensions. It must be
// called from the main thread, see runtime.LockOSThread.
func Context(req Request) (*Result, error) {
	v, err := req.validate()
	if err != nil {
		return nil, err
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	if req.API == "gl" {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, v.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, v.Minor)
	switch req.Profile {
	case "core":
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	case "compatibility":
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	}

	window, err := glfw.CreateWindow(64, 64, "glreg probe", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	res := &Result{
		API:      req.API,
		Renderer: glfw.GetVersionString(),
		Version: registry.Version{
			Major: window.GetAttrib(glfw.ContextVersionMajor),
			Minor: window.GetAttrib(glfw.ContextVersionMinor),
		},
	}
	if window.GetAttrib(glfw.ClientAPI) == glfw.OpenGLESAPI && req.API == "gl" {
		res.API = "gles2"
	}
	if res.API == "gl" {
		switch window.GetAttrib(glfw.OpenGLProfile) {
		case glfw.OpenGLCoreProfile:
			res.Profile = "core"
		case glfw.OpenGLCompatProfile:
			res.Profile = "compatibility"
		}
	}
	for _, ext := range req.Extensions {
		if glfw.ExtensionSupported(ext) {
			res.Extensions = append(res.Extensions, ext)
		}
	}
	return res, nil
}
