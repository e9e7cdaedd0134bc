// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"log/slog"
)

// Factory creates registry entities from scanned records. Embed
// DefaultFactory to override only some of the constructors.
type Factory interface {
	NewTypeDef(TypeRecord) *TypeDef
	NewGroup(GroupRecord) *Group
	NewEnumBlock(EnumBlockRecord) *EnumBlock
	NewCommand(CommandRecord) *Command
	NewFeature(FeatureRecord) *Feature
	NewExtension(ExtensionRecord) *Extension
}

// DefaultFactory copies records field by field.
type DefaultFactory struct{}

func (DefaultFactory) NewTypeDef(r TypeRecord) *TypeDef {
	return &TypeDef{
		Name:     r.Name,
		API:      r.API,
		RawText:  r.Text,
		Comment:  r.Comment,
		Requires: r.Requires,
	}
}

func (DefaultFactory) NewGroup(r GroupRecord) *Group {
	return &Group{Name: r.Name, Members: NewNameSet(r.Members...)}
}

func (DefaultFactory) NewEnumBlock(r EnumBlockRecord) *EnumBlock {
	b := &EnumBlock{
		Namespace: r.Namespace,
		Group:     r.Group,
		Type:      r.Type,
		Start:     r.Start,
		End:       r.End,
		Vendor:    r.Vendor,
		Comment:   r.Comment,
		Entries:   make([]*EnumEntry, 0, len(r.Enums)),
	}
	for _, e := range r.Enums {
		b.Entries = append(b.Entries, &EnumEntry{
			Name:    e.Name,
			Value:   e.Value,
			Alias:   e.Alias,
			Comment: e.Comment,
			API:     e.API,
			Type:    e.Type,
			Groups:  e.Groups,
		})
	}
	return b
}

func (DefaultFactory) NewCommand(r CommandRecord) *Command {
	c := &Command{
		Name:       r.Name,
		ReturnType: r.ReturnType,
		ReturnText: r.ReturnText,
		Alias:      r.Alias,
		Params:     make([]CommandParam, 0, len(r.Params)),
		GLX:        r.GLX,
	}
	for _, p := range r.Params {
		c.Params = append(c.Params, CommandParam{
			Name:    p.Name,
			Type:    p.Type,
			Group:   p.Group,
			Len:     p.Len,
			RawText: p.Text,
		})
	}
	return c
}

func (DefaultFactory) NewFeature(r FeatureRecord) *Feature {
	return &Feature{
		API:    r.API,
		Name:   r.Name,
		Number: r.Number,
		Deltas: newDeltas(r.Deltas),
	}
}

func (DefaultFactory) NewExtension(r ExtensionRecord) *Extension {
	return &Extension{
		Name:      r.Name,
		Supported: splitSupported(r.Supported),
		Deltas:    newDeltas(r.Deltas),
	}
}

func newDeltas(rs []DeltaRecord) []*Delta {
	ds := make([]*Delta, 0, len(rs))
	for _, r := range rs {
		ds = append(ds, &Delta{
			Mode:     r.Mode,
			Profile:  r.Profile,
			API:      r.API,
			Comment:  r.Comment,
			Enums:    NewNameSet(r.Enums...),
			Commands: NewNameSet(r.Commands...),
			Types:    NewNameSet(r.Types...),
		})
	}
	return ds
}

type buildConfig struct {
	factory Factory
	logger  *slog.Logger
}

// BuildOption configures Build and the Load functions.
type BuildOption func(*buildConfig)

// WithFactory sets the Factory used to create entities.
func WithFactory(f Factory) BuildOption {
	return func(c *buildConfig) {
		if f != nil {
			c.factory = f
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newBuildConfig(opts []BuildOption) *buildConfig {
	c := &buildConfig{factory: DefaultFactory{}, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Build assembles a Registry from scanned records. It never fails: data
// integrity problems are recorded as warnings on the returned registry.
func Build(recs *Records, opts ...BuildOption) *Registry {
	cfg := newBuildConfig(opts)
	b := &builder{f: cfg.factory, r: newRegistry()}
	if recs == nil {
		recs = &Records{}
	}

	for _, t := range recs.Types {
		b.addType(b.f.NewTypeDef(t))
	}
	for _, g := range recs.Groups {
		grp := b.f.NewGroup(g)
		b.r.groups[grp.Name] = grp
	}
	for _, blk := range recs.EnumBlocks {
		b.addBlock(b.f.NewEnumBlock(blk))
	}
	for _, c := range recs.Commands {
		cmd := b.f.NewCommand(c)
		if _, ok := b.r.commands[cmd.Name]; !ok {
			b.r.commandOrder = append(b.r.commandOrder, cmd)
		} else {
			for i, prev := range b.r.commandOrder {
				if prev.Name == cmd.Name {
					b.r.commandOrder[i] = cmd
				}
			}
		}
		b.r.commands[cmd.Name] = cmd
	}
	for _, f := range recs.Features {
		ft := b.f.NewFeature(f)
		b.r.features = append(b.r.features, ft)
		b.r.byFeature[ft.Name] = ft
	}
	for _, e := range recs.Extensions {
		ext := b.f.NewExtension(e)
		if _, ok := b.r.extensions[ext.Name]; !ok {
			b.r.extOrder = append(b.r.extOrder, ext)
		} else {
			for i, prev := range b.r.extOrder {
				if prev.Name == ext.Name {
					b.r.extOrder[i] = ext
				}
			}
		}
		b.r.extensions[ext.Name] = ext
	}

	b.mergeEnumGroups()
	b.checkReferences()

	cfg.logger.Debug("registry built",
		"types", len(b.r.types),
		"groups", len(b.r.groups),
		"enum_blocks", len(b.r.blocks),
		"enums", len(b.r.enums),
		"commands", len(b.r.commands),
		"features", len(b.r.features),
		"extensions", len(b.r.extensions),
		"warnings", len(b.r.warnings),
	)
	for _, w := range b.r.warnings {
		cfg.logger.Debug("registry warning", "code", string(w.Code), "where", w.Where, "name", w.Name, "message", w.Message)
	}
	return b.r
}

type builder struct {
	f Factory
	r *Registry
}

func (b *builder) warn(w Warning) {
	b.r.warnings = append(b.r.warnings, w)
}

func (b *builder) addType(t *TypeDef) {
	key := variantKey{t.Name, t.API}
	if _, ok := b.r.typeVariants[key]; ok {
		for i, prev := range b.r.typeOrder {
			if prev.Name == t.Name && prev.API == t.API {
				b.r.typeOrder[i] = t
			}
		}
	} else {
		b.r.typeOrder = append(b.r.typeOrder, t)
	}
	b.r.typeVariants[key] = t
	if prev, ok := b.r.types[t.Name]; !ok || t.API == "" || prev.API == t.API {
		b.r.types[t.Name] = t
	}
}

func (b *builder) addBlock(blk *EnumBlock) {
	idx := len(b.r.blocks)
	b.r.blocks = append(b.r.blocks, blk)
	where := "enums block " + blockName(blk)

	var (
		start, end uint64
		ranged     bool
	)
	if blk.HasRange() {
		s, errs := blk.StartInt()
		e, erre := blk.EndInt()
		start, end, ranged = s, e, errs == nil && erre == nil
	}

	for _, e := range blk.Entries {
		key := variantKey{e.Name, e.API}
		if _, dup := b.r.enumVariants[key]; dup {
			b.warn(newWarning(WarnDuplicateName, where, e.Name, "enum %s declared more than once", e.Name))
		}
		b.r.enumVariants[key] = e
		if prev, ok := b.r.enums[e.Name]; !ok || (e.API == "" && prev.API != "") || prev.API == e.API {
			b.r.enums[e.Name] = e
			b.r.blockOf[e.Name] = idx
		}
		if ranged {
			if v, err := e.ValueInt(); err == nil && (v < start || v > end) {
				b.warn(newWarning(WarnValueOutOfRange, where, e.Name,
					"enum %s value %s outside [%s, %s]", e.Name, e.Value, blk.Start, blk.End))
			}
		}
	}
}

// mergeEnumGroups adds enums to the groups named in their group attribute,
// creating groups that have no <group> declaration.
func (b *builder) mergeEnumGroups() {
	for _, blk := range b.r.blocks {
		for _, e := range blk.Entries {
			for _, name := range e.Groups {
				g, ok := b.r.groups[name]
				if !ok {
					g = b.f.NewGroup(GroupRecord{Name: name})
					b.r.groups[name] = g
				}
				if g.Members == nil {
					g.Members = NewNameSet()
				}
				g.Members.Add(e.Name)
			}
		}
	}
}

func (b *builder) checkReferences() {
	r := b.r
	for _, t := range r.typeOrder {
		if t.Requires != "" && r.types[t.Requires] == nil {
			b.dangling("type "+t.Name, "type", t.Requires)
		}
	}
	for _, blk := range r.blocks {
		where := "enums block " + blockName(blk)
		if blk.Group != "" && r.groups[blk.Group] == nil {
			b.dangling(where, "group", blk.Group)
		}
		for _, e := range blk.Entries {
			if e.Alias != "" && r.enums[e.Alias] == nil {
				b.dangling("enum "+e.Name, "enum", e.Alias)
			}
		}
	}
	for _, c := range r.commandOrder {
		where := "command " + c.Name
		if c.ReturnType != "" && r.types[c.ReturnType] == nil {
			b.dangling(where, "type", c.ReturnType)
		}
		if c.Alias != "" && r.commands[c.Alias] == nil {
			b.dangling(where, "command", c.Alias)
		}
		for _, p := range c.Params {
			if p.Type != "" && r.types[p.Type] == nil {
				b.dangling(where, "type", p.Type)
			}
			if p.Group != "" && r.groups[p.Group] == nil {
				b.dangling(where, "group", p.Group)
			}
		}
	}
	for _, f := range r.features {
		b.checkDeltas("feature "+f.Name, f.Deltas)
	}
	for _, e := range r.extOrder {
		b.checkDeltas("extension "+e.Name, e.Deltas)
	}
}

func (b *builder) checkDeltas(where string, ds []*Delta) {
	for _, d := range ds {
		for _, n := range d.Types.Sorted() {
			if b.r.types[n] == nil {
				b.dangling(where, "type", n)
			}
		}
		for _, n := range d.Enums.Sorted() {
			if b.r.enums[n] == nil {
				b.dangling(where, "enum", n)
			}
		}
		for _, n := range d.Commands.Sorted() {
			if b.r.commands[n] == nil {
				b.dangling(where, "command", n)
			}
		}
	}
}

func (b *builder) dangling(where, kind, name string) {
	b.warn(newWarning(WarnDanglingReference, where, name, "unknown %s %s", kind, name))
}

func blockName(b *EnumBlock) string {
	switch {
	case b.HasRange():
		return b.Namespace + " " + b.Start + "-" + b.End
	case b.Group != "":
		return b.Namespace + " " + b.Group
	}
	return b.Namespace
}
