// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command glreg reads the OpenGL API registry (gl.xml) and lists the types,
// enums and commands of an api profile.
//
// Usage:
//
//	# summary of a local registry file
//	glreg inspect -f gl.xml
//
//	# OpenGL 3.3 core profile with KHR_debug, fetched from upstream
//	glreg resolve -d --api gl --version 3.3 --profile core --ext GL_KHR_debug
//
//	# regenerate a JSON listing whenever gl.xml changes
//	glreg watch -f gl.xml --target gl33 --format json -o gl33.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/db47h/glreg/internal/config"
	"github.com/db47h/glreg/internal/logging"
	"github.com/db47h/glreg/internal/output"
	"github.com/db47h/glreg/registry"
)

// globals holds the persistent flags and what setup derives from them.
type globals struct {
	cfgFile    string
	file       string
	url        string
	defaultURL bool
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// extraCommands are added to the root command by optional, build tagged,
// subcommands.
var extraCommands []func(*globals) *cobra.Command

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "glreg",
		Short: "OpenGL API registry reader",
		Long: `glreg reads the Khronos OpenGL API registry (gl.xml) and computes the
types, enums and commands that make up a given api, version and profile,
optionally extended with a list of extensions.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: g.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.cfgFile, "config", "c", "", "config `file` (default "+config.DefaultFile+" if present)")
	pf.StringVarP(&g.file, "file", "f", "", "read the registry from `path`")
	pf.StringVarP(&g.url, "url", "u", "", "fetch the registry from `url`")
	pf.BoolVarP(&g.defaultURL, "default-url", "d", false, "fetch the registry from "+registry.DefaultURL)
	pf.StringVarP(&g.logLevel, "log-level", "l", "", "log `level`: debug, info, warning or error")
	pf.StringVar(&g.logFormat, "log-format", "", "log `format`: text or json")
	cmd.MarkFlagsMutuallyExclusive("file", "url", "default-url")

	cmd.AddCommand(newInspectCmd(g), newResolveCmd(g), newWatchCmd(g))
	for _, fn := range extraCommands {
		cmd.AddCommand(fn(g))
	}
	return cmd
}

// setup loads the configuration, applies the command line overrides and
// creates the logger.
func (g *globals) setup(cmd *cobra.Command, args []string) error {
	path := g.cfgFile
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}

	switch {
	case g.file != "":
		cfg.Source.Path, cfg.Source.URL = g.file, ""
	case g.url != "":
		cfg.Source.Path, cfg.Source.URL = "", g.url
	case g.defaultURL:
		cfg.Source.Path, cfg.Source.URL = "", registry.DefaultURL
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}

	g.logger, err = logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	g.cfg = cfg
	if path != "" {
		g.logger.Debug("configuration loaded", "path", path)
	}
	return nil
}

func (g *globals) source() (registry.Source, error) {
	switch {
	case g.cfg.Source.Path != "":
		return registry.FileSource{Path: g.cfg.Source.Path}, nil
	case g.cfg.Source.URL != "":
		return registry.URLSource{
			URL:    g.cfg.Source.URL,
			Client: &http.Client{Timeout: g.cfg.Source.Timeout},
		}, nil
	}
	return nil, errors.New("a --file or an --url needs to be supplied")
}

func (g *globals) loadRegistry(ctx context.Context) (*registry.Registry, registry.Source, error) {
	src, err := g.source()
	if err != nil {
		return nil, nil, err
	}
	g.logger.Info("loading registry", "source", fmt.Sprint(src))
	reg, err := registry.Load(ctx, src, registry.WithLogger(g.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", src, err)
	}
	if n := len(reg.Warnings()); n > 0 {
		g.logger.Warn("registry has data integrity warnings", "count", n)
	}
	return reg, src, nil
}

// outputFormat returns the format flag value or the configured one.
func (g *globals) outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return g.cfg.Output.Format
}

// writeOutput formats v to the file at path, or to the command output if
// path is empty.
func writeOutput(cmd *cobra.Command, format, path string, v interface{}) (err error) {
	f, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		o, oerr := os.Create(path)
		if oerr != nil {
			return oerr
		}
		defer func() {
			if cerr := o.Close(); err == nil {
				err = cerr
			}
		}()
		w = o
	}
	return f.FormatTo(w, v)
}
