// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

// Target describes the API configuration a profile is resolved for.
type Target struct {
	API        string // "gl", "gles1", "gles2", "glsc2"
	Profile    string // "core", "compatibility" or empty
	Version    string
	Extensions []string // applied in this order

	// WithDependencies closes the type set over the types required by the
	// selected types and commands.
	WithDependencies bool
}

// ProfileResult is the set of names a binding for a Target must expose.
type ProfileResult struct {
	API     string
	Profile string
	Version string

	Types    NameSet
	Enums    NameSet
	Commands NameSet

	Features   []string // applied features in version order
	Extensions []string // applied extensions in request order
	Warnings   Warnings
}

func (p *ProfileResult) SortedTypes() []string    { return p.Types.Sorted() }
func (p *ProfileResult) SortedEnums() []string    { return p.Enums.Sorted() }
func (p *ProfileResult) SortedCommands() []string { return p.Commands.Sorted() }

// Resolve is a shortcut for Resolve(r, t).
func (r *Registry) Resolve(t Target) (*ProfileResult, error) {
	return Resolve(r, t)
}

// Resolve computes the types, enums and commands of the api profile
// described by t.
//
// Features of t.API up to t.Version are applied in ascending version order,
// then the requested extensions in the given order: require blocks add names,
// remove blocks take them away, so the last applied block wins. Enum aliases
// are replaced by their target once all blocks are applied, and names
// unknown to the registry are dropped.
//
// Unknown or unsupported extensions are skipped and reported in the result
// warnings. The only error is an invalid target version.
func Resolve(reg *Registry, t Target) (*ProfileResult, error) {
	target, err := ParseVersion(t.Version)
	if err != nil {
		return nil, err
	}
	res := &ProfileResult{
		API:      t.API,
		Profile:  t.Profile,
		Version:  target.String(),
		Types:    NewNameSet(),
		Enums:    NewNameSet(),
		Commands: NewNameSet(),
	}
	s := &selection{reg: reg, api: t.API, profile: t.Profile, res: res}

	if t.API != "" {
		for _, f := range reg.Features(t.API) {
			v, err := f.Version()
			if err != nil {
				res.Warnings = append(res.Warnings, newWarning(WarnMalformedNumber, "feature "+f.Name, f.Number,
					"feature %s has unparsable number %q, skipped", f.Name, f.Number))
				continue
			}
			if target.Compare(&v) < 0 {
				continue
			}
			s.apply(f.Deltas)
			res.Features = append(res.Features, f.Name)
		}
	}

	seen := NewNameSet()
	for _, name := range t.Extensions {
		if seen.Has(name) {
			continue
		}
		seen.Add(name)
		ext := reg.Extension(name)
		if ext == nil {
			res.Warnings = append(res.Warnings, newWarning(WarnUnknownExtension, "", name,
				"unknown extension %s", name))
			continue
		}
		if !ext.Supports(t.API, t.Profile) {
			res.Warnings = append(res.Warnings, newWarning(WarnUnsupportedAPIExtension, "extension "+name, t.API,
				"extension %s does not support api %s", name, t.API))
			continue
		}
		s.apply(ext.Deltas)
		res.Extensions = append(res.Extensions, name)
	}

	s.canonicalEnums()
	s.dropUnknown()
	if t.WithDependencies {
		s.closeTypes()
	}
	return res, nil
}

type selection struct {
	reg     *Registry
	api     string
	profile string
	res     *ProfileResult
}

func (s *selection) apply(ds []*Delta) {
	for _, d := range ds {
		if !d.AppliesTo(s.api, s.profile) {
			continue
		}
		switch d.Mode {
		case Require:
			for n := range d.Enums {
				s.res.Enums.Add(n)
			}
			for n := range d.Commands {
				s.res.Commands.Add(n)
			}
			for n := range d.Types {
				s.res.Types.Add(n)
			}
		case Remove:
			for n := range d.Enums {
				s.res.Enums.Remove(n)
			}
			for n := range d.Commands {
				s.res.Commands.Remove(n)
			}
			for n := range d.Types {
				s.res.Types.Remove(n)
			}
		}
	}
}

// canonicalEnums replaces each enum alias by its target so that the set
// never holds both names of an alias pair.
func (s *selection) canonicalEnums() {
	enums := NewNameSet()
	for n := range s.res.Enums {
		enums.Add(s.reg.Canonical(n, s.api))
	}
	s.res.Enums = enums
}

func (s *selection) dropUnknown() {
	for n := range s.res.Enums {
		if s.reg.Enum(n) == nil {
			delete(s.res.Enums, n)
		}
	}
	for n := range s.res.Commands {
		if s.reg.Command(n) == nil {
			delete(s.res.Commands, n)
		}
	}
	for n := range s.res.Types {
		if s.reg.Type(n) == nil {
			delete(s.res.Types, n)
		}
	}
}

// closeTypes adds the types used by selected commands and the types they
// require, transitively.
func (s *selection) closeTypes() {
	var work []string
	add := func(name string) {
		if name == "" || s.res.Types.Has(name) || s.reg.Type(name) == nil {
			return
		}
		s.res.Types.Add(name)
		work = append(work, name)
	}
	for n := range s.res.Types {
		work = append(work, n)
	}
	for n := range s.res.Commands {
		c := s.reg.Command(n)
		add(c.ReturnType)
		for _, p := range c.Params {
			add(p.Type)
		}
	}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		td := s.reg.TypeFor(n, s.api)
		if td == nil {
			td = s.reg.Type(n)
		}
		add(td.Requires)
	}
}
