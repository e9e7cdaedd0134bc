// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

// Records holds the flat per-tag records extracted from a registry
// document, in document order. Any of the lists may be empty.
type Records struct {
	Types      []TypeRecord
	Groups     []GroupRecord
	EnumBlocks []EnumBlockRecord
	Commands   []CommandRecord
	Features   []FeatureRecord
	Extensions []ExtensionRecord
}

type TypeRecord struct {
	Name     string
	API      string
	Text     string
	Comment  string
	Requires string
}

type GroupRecord struct {
	Name    string
	Members []string
}

type EnumRecord struct {
	Name    string
	Value   string
	Alias   string
	Comment string
	API     string
	Type    string
	Groups  []string
}

type EnumBlockRecord struct {
	Namespace string
	Group     string
	Type      string
	Start     string
	End       string
	Vendor    string
	Comment   string
	Enums     []EnumRecord
}

type ParamRecord struct {
	Name  string
	Type  string
	Group string
	Len   string
	Text  string
}

type CommandRecord struct {
	Name       string
	ReturnType string
	ReturnText string
	Alias      string
	Params     []ParamRecord
	GLX        []GLX
}

type DeltaRecord struct {
	Mode     Mode
	Profile  string
	API      string
	Comment  string
	Enums    []string
	Commands []string
	Types    []string
}

type FeatureRecord struct {
	API    string
	Name   string
	Number string
	Deltas []DeltaRecord
}

type ExtensionRecord struct {
	Name      string
	Supported string // '|' separated api list
	Deltas    []DeltaRecord
}
