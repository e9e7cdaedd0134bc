// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/db47h/glreg/internal/output"
)

func newInspectCmd(g *globals) *cobra.Command {
	var (
		warnings bool
		format   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the content of a registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, src, err := g.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			s := output.NewSummary(fmt.Sprint(src), reg, warnings)
			return writeOutput(cmd, g.outputFormat(format), out, s)
		},
	}
	cmd.Flags().BoolVarP(&warnings, "warnings", "w", false, "list data integrity warnings")
	cmd.Flags().StringVar(&format, "format", "", "output `format`: text, json, yaml or cbor")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to `file` instead of stdout")
	return cmd
}
