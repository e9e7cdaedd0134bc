// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/db47h/glreg/internal/watch"
)

func newWatchCmd(g *globals) *cobra.Command {
	opts := &resolveOptions{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Resolve a profile again each time the registry file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.cfg.Source.Path == "" {
				return errors.New("watch needs a registry --file")
			}
			t, err := opts.resolveTarget(cmd.Flags(), g.cfg)
			if err != nil {
				return err
			}
			w, err := watch.New(watch.Config{Path: g.cfg.Source.Path, Debounce: debounce}, g.logger)
			if err != nil {
				return err
			}
			run := func() error {
				reg, _, err := g.loadRegistry(cmd.Context())
				if err != nil {
					return err
				}
				return g.resolve(cmd, reg, t, opts.format, opts.output)
			}
			// a broken file at startup is not fatal, it may be fixed later
			if err := run(); err != nil {
				g.logger.Error("resolve failed", "error", err)
			}
			return w.Run(cmd.Context(), run)
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait `duration` after the last change")
	return cmd
}
