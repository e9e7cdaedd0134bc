// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package output renders resolved profiles and registry summaries.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formatter writes a Report or a Summary to w.
type Formatter interface {
	FormatTo(w io.Writer, v interface{}) error
}

// TextWriter is implemented by values with a plain text rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

type TextFormatter struct{}

func (TextFormatter) FormatTo(w io.Writer, v interface{}) error {
	if tw, ok := v.(TextWriter); ok {
		return tw.WriteText(w)
	}
	_, err := fmt.Fprintf(w, "%v\n", v)
	return err
}

type JSONFormatter struct {
	Indent bool
}

func (f JSONFormatter) FormatTo(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

type YAMLFormatter struct{}

func (YAMLFormatter) FormatTo(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// encMode produces deterministic output: the same report always encodes to
// the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
}

type CBORFormatter struct{}

func (CBORFormatter) FormatTo(w io.Writer, v interface{}) error {
	return encMode.NewEncoder(w).Encode(v)
}

// NewFormatter returns the formatter for the named format.
func NewFormatter(format string) (Formatter, error) {
	switch Format(format) {
	case FormatText, "":
		return TextFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{Indent: true}, nil
	case FormatYAML:
		return YAMLFormatter{}, nil
	case FormatCBOR:
		return CBORFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
