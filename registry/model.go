// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"sort"
	"strings"
)

// NameSet is an unordered set of entity names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	s.Add(names...)
	return s
}

func (s NameSet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

func (s NameSet) Remove(names ...string) {
	for _, n := range names {
		delete(s, n)
	}
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TypeDef is a <type> definition.
type TypeDef struct {
	Name     string
	API      string // set for api specific variants
	RawText  string // C declaration text
	Comment  string
	Requires string // name of a type this one depends on
}

// Group is a named classification of enums, e.g. "TextureTarget".
type Group struct {
	Name    string
	Members NameSet
}

// EnumEntry is a single <enum> of an <enums> block.
type EnumEntry struct {
	Name    string
	Value   string
	Alias   string
	Comment string
	API     string
	Type    string // "u" or "ull" for unsigned constants
	Groups  []string
}

// ValueInt returns the numeric value of the enum.
func (e *EnumEntry) ValueInt() (uint64, error) {
	return ParseHex(e.Value)
}

// EnumBlock is an <enums> block: either a vendor reserved range or a flat
// table such as a bitmask group.
type EnumBlock struct {
	Namespace string
	Group     string
	Type      string // e.g. "bitmask"
	Start     string
	End       string
	Vendor    string
	Comment   string
	Entries   []*EnumEntry
}

// HasRange reports whether the block declares a start and end value.
func (b *EnumBlock) HasRange() bool {
	return b.Start != "" && b.End != ""
}

func (b *EnumBlock) StartInt() (uint64, error) {
	return ParseHex(b.Start)
}

func (b *EnumBlock) EndInt() (uint64, error) {
	return ParseHex(b.End)
}

// CommandParam is a <param> of a command.
type CommandParam struct {
	Name    string
	Type    string // <ptype>, empty for plain C types such as void*
	Group   string
	Len     string
	RawText string
}

// GLX carries the GLX protocol information of a command.
type GLX struct {
	Type    string `xml:"type,attr"`
	Opcode  string `xml:"opcode,attr"`
	Name    string `xml:"name,attr"`
	Comment string `xml:"comment,attr"`
}

// Command is a <command>.
type Command struct {
	Name       string
	ReturnType string // <ptype> of the prototype, if any
	ReturnText string // prototype text minus the command name
	Params     []CommandParam
	Alias      string
	GLX        []GLX
}

// Mode tells whether a Delta adds or removes names.
type Mode int

const (
	Require Mode = iota
	Remove
)

func (m Mode) String() string {
	if m == Remove {
		return "remove"
	}
	return "require"
}

// Delta is a <require> or <remove> block of a feature or extension.
type Delta struct {
	Mode     Mode
	Profile  string
	API      string
	Comment  string
	Enums    NameSet
	Commands NameSet
	Types    NameSet
}

// AppliesTo reports whether the delta is in effect for the given api and
// profile. Deltas without a profile or api attribute apply to all.
func (d *Delta) AppliesTo(api, profile string) bool {
	return (d.Profile == "" || d.Profile == profile) && (d.API == "" || d.API == api)
}

// Feature is a <feature>: one numbered version of an API.
type Feature struct {
	API    string
	Name   string
	Number string
	Deltas []*Delta
}

// Version parses the feature number.
func (f *Feature) Version() (Version, error) {
	return ParseVersion(f.Number)
}

// Extension is an <extension>.
type Extension struct {
	Name      string
	Supported NameSet
	Deltas    []*Delta
}

// Supports reports whether the extension can be layered on the given api
// and profile. The registry spells core profile support for desktop GL as
// the pseudo api "glcore".
func (e *Extension) Supports(api, profile string) bool {
	if e.Supported.Has(api) {
		return true
	}
	return api == "gl" && profile == "core" && e.Supported.Has("glcore")
}

func splitSupported(s string) NameSet {
	set := NewNameSet()
	for _, api := range strings.Split(s, "|") {
		if api = strings.TrimSpace(api); api != "" {
			set.Add(api)
		}
	}
	return set
}

type variantKey struct {
	name string
	api  string
}

// Registry is the normalized content of a registry document. It is
// immutable once returned by Build and safe for concurrent use.
type Registry struct {
	types        map[string]*TypeDef
	typeVariants map[variantKey]*TypeDef
	typeOrder    []*TypeDef

	groups map[string]*Group

	blocks       []*EnumBlock
	enums        map[string]*EnumEntry
	enumVariants map[variantKey]*EnumEntry
	blockOf      map[string]int

	commands     map[string]*Command
	commandOrder []*Command

	features  []*Feature
	byFeature map[string]*Feature

	extensions map[string]*Extension
	extOrder   []*Extension

	warnings Warnings
}

func newRegistry() *Registry {
	return &Registry{
		types:        make(map[string]*TypeDef),
		typeVariants: make(map[variantKey]*TypeDef),
		groups:       make(map[string]*Group),
		enums:        make(map[string]*EnumEntry),
		enumVariants: make(map[variantKey]*EnumEntry),
		blockOf:      make(map[string]int),
		commands:     make(map[string]*Command),
		byFeature:    make(map[string]*Feature),
		extensions:   make(map[string]*Extension),
	}
}

// Type returns the type with the given name, preferring the variant that is
// not api specific.
func (r *Registry) Type(name string) *TypeDef {
	return r.types[name]
}

// TypeFor returns the variant of a type for the given api, falling back to
// the generic one.
func (r *Registry) TypeFor(name, api string) *TypeDef {
	if t, ok := r.typeVariants[variantKey{name, api}]; ok {
		return t
	}
	return r.typeVariants[variantKey{name, ""}]
}

// Types returns all type definitions, api variants included, in document
// order.
func (r *Registry) Types() []*TypeDef {
	return r.typeOrder
}

func (r *Registry) Group(name string) *Group {
	return r.groups[name]
}

// Groups returns all groups sorted by name.
func (r *Registry) Groups() []*Group {
	gs := make([]*Group, 0, len(r.groups))
	for _, g := range r.groups {
		gs = append(gs, g)
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i].Name < gs[j].Name })
	return gs
}

// EnumBlocks returns all enum blocks in document order.
func (r *Registry) EnumBlocks() []*EnumBlock {
	return r.blocks
}

// Enum returns the enum with the given name. If the name has api specific
// variants, the generic one is preferred, then the first declared.
func (r *Registry) Enum(name string) *EnumEntry {
	return r.enums[name]
}

// EnumFor returns the variant of an enum for the given api, falling back to
// the generic one. It returns nil if the enum only exists for other apis.
func (r *Registry) EnumFor(name, api string) *EnumEntry {
	if e, ok := r.enumVariants[variantKey{name, api}]; ok {
		return e
	}
	return r.enumVariants[variantKey{name, ""}]
}

// EnumCount returns the number of distinct enum names.
func (r *Registry) EnumCount() int {
	return len(r.enums)
}

// BlockOf returns the block that declares the enum returned by Enum(name).
func (r *Registry) BlockOf(name string) *EnumBlock {
	i, ok := r.blockOf[name]
	if !ok {
		return nil
	}
	return r.blocks[i]
}

// GroupOf returns the Group a block is declared for, if any.
func (r *Registry) GroupOf(b *EnumBlock) *Group {
	if b == nil || b.Group == "" {
		return nil
	}
	return r.groups[b.Group]
}

// Canonical follows the alias chain of an enum and returns the name at its
// end. Dangling aliases and unknown names are returned unchanged.
func (r *Registry) Canonical(name, api string) string {
	seen := map[string]bool{name: true}
	for {
		e := r.EnumFor(name, api)
		if e == nil {
			e = r.Enum(name)
		}
		if e == nil || e.Alias == "" || r.Enum(e.Alias) == nil || seen[e.Alias] {
			return name
		}
		name = e.Alias
		seen[name] = true
	}
}

// EnumValue returns the numeric value of an enum, resolved through its
// alias when the alias target is known.
func (r *Registry) EnumValue(name string) (uint64, error) {
	e := r.Enum(r.Canonical(name, ""))
	if e == nil {
		return 0, newWarning(WarnDanglingReference, "", name, "unknown enum %s", name)
	}
	return e.ValueInt()
}

func (r *Registry) Command(name string) *Command {
	return r.commands[name]
}

// Commands returns all commands in document order.
func (r *Registry) Commands() []*Command {
	return r.commandOrder
}

// Feature returns the feature with the given name, e.g. "GL_VERSION_3_3".
func (r *Registry) Feature(name string) *Feature {
	return r.byFeature[name]
}

// Features returns the features of an api sorted by ascending version.
// Features whose number does not parse sort last. An empty api returns all
// features in document order.
func (r *Registry) Features(api string) []*Feature {
	if api == "" {
		return r.features
	}
	var fs []*Feature
	for _, f := range r.features {
		if f.API == api {
			fs = append(fs, f)
		}
	}
	sort.SliceStable(fs, func(i, j int) bool {
		vi, erri := fs[i].Version()
		vj, errj := fs[j].Version()
		if erri != nil || errj != nil {
			return erri == nil && errj != nil
		}
		return vi.Compare(&vj) < 0
	})
	return fs
}

// APIs returns the names of all apis that have at least one feature.
func (r *Registry) APIs() []string {
	set := NewNameSet()
	for _, f := range r.features {
		set.Add(f.API)
	}
	return set.Sorted()
}

func (r *Registry) Extension(name string) *Extension {
	return r.extensions[name]
}

// Extensions returns all extensions in document order.
func (r *Registry) Extensions() []*Extension {
	return r.extOrder
}

// Warnings returns the data integrity problems found while building the
// registry.
func (r *Registry) Warnings() Warnings {
	return r.warnings
}
