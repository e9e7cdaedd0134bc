// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/db47h/glreg/registry"
)

// Report is the printable form of a resolved profile.
type Report struct {
	API        string    `json:"api" yaml:"api"`
	Profile    string    `json:"profile,omitempty" yaml:"profile,omitempty"`
	Version    string    `json:"version" yaml:"version"`
	Features   []string  `json:"features" yaml:"features"`
	Extensions []string  `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Types      []string  `json:"types" yaml:"types"`
	Enums      []Enum    `json:"enums" yaml:"enums"`
	Commands   []Command `json:"commands" yaml:"commands"`
	Warnings   []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type Enum struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type Command struct {
	Name      string `json:"name" yaml:"name"`
	Prototype string `json:"prototype" yaml:"prototype"`
}

type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Where   string `json:"where,omitempty" yaml:"where,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
}

// NewReport builds the report of p. Enum values and command prototypes are
// looked up in reg.
func NewReport(reg *registry.Registry, p *registry.ProfileResult) *Report {
	r := &Report{
		API:        p.API,
		Profile:    p.Profile,
		Version:    p.Version,
		Features:   p.Features,
		Extensions: p.Extensions,
		Types:      p.SortedTypes(),
		Warnings:   warnings(p.Warnings),
	}
	for _, name := range p.SortedEnums() {
		e := reg.EnumFor(name, p.API)
		if e == nil {
			e = reg.Enum(name)
		}
		v := e.Value
		if n, err := registry.NormalizeHex(v); err == nil {
			v = n
		}
		r.Enums = append(r.Enums, Enum{Name: name, Value: v})
	}
	for _, name := range p.SortedCommands() {
		r.Commands = append(r.Commands, Command{Name: name, Prototype: Prototype(reg.Command(name))})
	}
	return r
}

// Prototype returns the C prototype of a command.
func Prototype(c *registry.Command) string {
	params := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		params = append(params, p.RawText)
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	sep := " "
	if strings.HasSuffix(c.ReturnText, "*") {
		sep = ""
	}
	return c.ReturnText + sep + c.Name + "(" + strings.Join(params, ", ") + ")"
}

func warnings(ws registry.Warnings) []Warning {
	var out []Warning
	for _, w := range ws {
		out = append(out, Warning{Code: string(w.Code), Where: w.Where, Name: w.Name, Message: w.Message})
	}
	return out
}

func (r *Report) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("// %s %s", r.API, r.Version)
	if r.Profile != "" {
		ew.printf(" %s", r.Profile)
	}
	ew.printf("\n// features: %s\n", strings.Join(r.Features, " "))
	if len(r.Extensions) > 0 {
		ew.printf("// extensions: %s\n", strings.Join(r.Extensions, " "))
	}
	ew.printf("\n// types\n")
	for _, t := range r.Types {
		ew.printf("%s\n", t)
	}
	ew.printf("\n// enums\n")
	for _, e := range r.Enums {
		ew.printf("#define %s %s\n", e.Name, e.Value)
	}
	ew.printf("\n// commands\n")
	for _, c := range r.Commands {
		ew.printf("%s;\n", c.Prototype)
	}
	writeWarnings(ew, r.Warnings)
	return ew.err
}

// Summary describes the content of a registry.
type Summary struct {
	Source     string       `json:"source" yaml:"source"`
	Types      int          `json:"types" yaml:"types"`
	Groups     int          `json:"groups" yaml:"groups"`
	EnumBlocks int          `json:"enum_blocks" yaml:"enum_blocks"`
	Enums      int          `json:"enums" yaml:"enums"`
	Commands   int          `json:"commands" yaml:"commands"`
	Extensions int          `json:"extensions" yaml:"extensions"`
	APIs       []APISummary `json:"apis" yaml:"apis"`
	Warnings   []Warning    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type APISummary struct {
	API      string   `json:"api" yaml:"api"`
	Versions []string `json:"versions" yaml:"versions"`
}

// NewSummary summarizes reg. Warnings are only included if withWarnings is
// set.
func NewSummary(source string, reg *registry.Registry, withWarnings bool) *Summary {
	s := &Summary{
		Source:     source,
		Types:      len(reg.Types()),
		Groups:     len(reg.Groups()),
		EnumBlocks: len(reg.EnumBlocks()),
		Enums:      reg.EnumCount(),
		Commands:   len(reg.Commands()),
		Extensions: len(reg.Extensions()),
	}
	for _, api := range reg.APIs() {
		as := APISummary{API: api}
		for _, f := range reg.Features(api) {
			as.Versions = append(as.Versions, f.Number)
		}
		s.APIs = append(s.APIs, as)
	}
	sort.Slice(s.APIs, func(i, j int) bool { return s.APIs[i].API < s.APIs[j].API })
	if withWarnings {
		s.Warnings = warnings(reg.Warnings())
	}
	return s
}

func (s *Summary) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("source:      %s\n", s.Source)
	ew.printf("types:       %d\n", s.Types)
	ew.printf("groups:      %d\n", s.Groups)
	ew.printf("enum blocks: %d\n", s.EnumBlocks)
	ew.printf("enums:       %d\n", s.Enums)
	ew.printf("commands:    %d\n", s.Commands)
	ew.printf("extensions:  %d\n", s.Extensions)
	for _, a := range s.APIs {
		ew.printf("%-12s %s\n", a.API+":", strings.Join(a.Versions, " "))
	}
	writeWarnings(ew, s.Warnings)
	return ew.err
}

func writeWarnings(ew *errWriter, ws []Warning) {
	if len(ws) == 0 {
		return
	}
	ew.printf("\n// warnings\n")
	for _, w := range ws {
		if w.Where != "" {
			ew.printf("[%s] %s: %s\n", w.Code, w.Where, w.Message)
		} else {
			ew.printf("[%s] %s\n", w.Code, w.Message)
		}
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
