// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/db47h/glreg/internal/config"
	"github.com/db47h/glreg/internal/output"
	"github.com/db47h/glreg/registry"
)

// targetFlags are the flags describing a resolve target.
type targetFlags struct {
	api     string
	version registry.Version
	profile string
	exts    []string
	target  string
	deps    bool
}

func (tf *targetFlags) register(fs *pflag.FlagSet) {
	tf.version = registry.Version{Major: 3, Minor: 3}
	fs.StringVar(&tf.api, "api", "gl", "`api` name: gl, gles1, gles2 or glsc2")
	fs.Var(&tf.version, "version", "api `version`")
	fs.StringVar(&tf.profile, "profile", "core", "`profile`: core, compatibility or empty (default core for gl only)")
	fs.StringSliceVarP(&tf.exts, "ext", "e", nil, "add extension `name`, may be repeated")
	fs.StringVarP(&tf.target, "target", "t", "", "use the named target from the config file")
	fs.BoolVar(&tf.deps, "deps", false, "include the types required by the selected types and commands")
}

// resolveTarget returns the target named by --target, if any, with the
// explicitly set flags applied on top of it.
func (tf *targetFlags) resolveTarget(fs *pflag.FlagSet, cfg *config.Config) (registry.Target, error) {
	t := registry.Target{
		API:              tf.api,
		Profile:          tf.profile,
		Version:          tf.version.String(),
		Extensions:       tf.exts,
		WithDependencies: tf.deps,
	}
	// profiles only exist for desktop gl
	if t.API != "gl" && !fs.Changed("profile") {
		t.Profile = ""
	}
	if tf.target == "" {
		return t, nil
	}
	ct, err := cfg.Target(tf.target)
	if err != nil {
		return t, err
	}
	if fs.Changed("api") {
		ct.API = t.API
	}
	if fs.Changed("profile") {
		ct.Profile = t.Profile
	}
	if fs.Changed("version") {
		ct.Version = t.Version
	}
	if fs.Changed("ext") {
		ct.Extensions = append(ct.Extensions, t.Extensions...)
	}
	if fs.Changed("deps") {
		ct.WithDependencies = t.WithDependencies
	}
	return ct, nil
}

type resolveOptions struct {
	targetFlags
	format string
	output string
}

func (o *resolveOptions) register(fs *pflag.FlagSet) {
	o.targetFlags.register(fs)
	fs.StringVar(&o.format, "format", "", "output `format`: text, json, yaml or cbor")
	fs.StringVarP(&o.output, "output", "o", "", "write to `file` instead of stdout")
}

func newResolveCmd(g *globals) *cobra.Command {
	opts := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the types, enums and commands of an api profile",
		Long: `Resolve applies the features of an api up to the requested version in
ascending order, then the requested extensions in command line order. Enum
aliases are replaced by their target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.resolveTarget(cmd.Flags(), g.cfg)
			if err != nil {
				return err
			}
			reg, _, err := g.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			return g.resolve(cmd, reg, t, opts.format, opts.output)
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

// resolve resolves t and writes the report.
func (g *globals) resolve(cmd *cobra.Command, reg *registry.Registry, t registry.Target, format, out string) error {
	p, err := reg.Resolve(t)
	if err != nil {
		return err
	}
	for _, w := range p.Warnings {
		g.logger.Warn("resolve", "code", string(w.Code), "name", w.Name, "message", w.Message)
	}
	g.logger.Info("profile resolved",
		"api", p.API,
		"profile", p.Profile,
		"version", p.Version,
		"types", len(p.Types),
		"enums", len(p.Enums),
		"commands", len(p.Commands),
	)
	return writeOutput(cmd, g.outputFormat(format), out, output.NewReport(reg, p))
}
