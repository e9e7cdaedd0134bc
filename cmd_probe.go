// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build glfw
// +build glfw

package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/db47h/glreg/internal/probe"
)

func init() {
	// glfw calls must be made from the main thread.
	runtime.LockOSThread()
	extraCommands = append(extraCommands, newProbeCmd)
}

func newProbeCmd(g *globals) *cobra.Command {
	opts := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Create an OpenGL context and resolve the profile the driver provides",
		Long: `Probe creates a hidden window with the requested api, version and profile,
then resolves the profile of the context actually obtained. Requested
extensions the driver does not support are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.resolveTarget(cmd.Flags(), g.cfg)
			if err != nil {
				return err
			}
			res, err := probe.Context(probe.Request{
				API:        t.API,
				Version:    t.Version,
				Profile:    t.Profile,
				Extensions: t.Extensions,
			})
			if err != nil {
				return err
			}
			g.logger.Info("context created",
				"api", res.API,
				"version", res.Version.String(),
				"profile", res.Profile,
				"glfw", res.Renderer,
				"extensions", len(res.Extensions),
			)

			reg, _, err := g.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			// resolve for what the driver gave us, not what was asked for
			return g.resolve(cmd, reg, res.Target(t.WithDependencies), opts.format, opts.output)
		},
	}
	opts.register(cmd.Flags())
	return cmd
}
