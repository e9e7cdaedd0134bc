// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDocumentUnreadable is returned when a document source cannot be
	// opened or fetched.
	ErrDocumentUnreadable = errors.New("document unreadable")
	// ErrMalformedDocument is returned when the document is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMalformedNumber is returned by numeric accessors on values that do
	// not parse.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrInvalidVersion is returned for version strings that do not parse.
	ErrInvalidVersion = errors.New("invalid version")

	ErrDanglingReference       = errors.New("dangling reference")
	ErrValueOutOfRange         = errors.New("value out of range")
	ErrDuplicateName           = errors.New("duplicate name")
	ErrUnknownExtension        = errors.New("unknown extension")
	ErrUnsupportedAPIExtension = errors.New("extension does not support api")
)

// WarningCode identifies the kind of a Warning.
type WarningCode string

const (
	// WarnDanglingReference: a name referenced by a delta, parameter, block
	// or alias does not resolve to a known entity.
	WarnDanglingReference WarningCode = "dangling-reference"
	// WarnValueOutOfRange: an enum value falls outside its block's range.
	WarnValueOutOfRange WarningCode = "value-out-of-range"
	// WarnDuplicateName: an enum name is declared twice for the same api.
	WarnDuplicateName WarningCode = "duplicate-name"
	// WarnMalformedNumber: a feature number does not parse and the feature
	// was skipped during resolution.
	WarnMalformedNumber WarningCode = "malformed-number"
	// WarnUnknownExtension: a requested extension is not in the registry.
	WarnUnknownExtension WarningCode = "unknown-extension"
	// WarnUnsupportedAPIExtension: a requested extension does not list the
	// requested api as supported.
	WarnUnsupportedAPIExtension WarningCode = "unsupported-api-extension"
)

var codeErrors = map[WarningCode]error{
	WarnDanglingReference:       ErrDanglingReference,
	WarnValueOutOfRange:         ErrValueOutOfRange,
	WarnDuplicateName:           ErrDuplicateName,
	WarnMalformedNumber:         ErrMalformedNumber,
	WarnUnknownExtension:        ErrUnknownExtension,
	WarnUnsupportedAPIExtension: ErrUnsupportedAPIExtension,
}

// Warning is a non-fatal data integrity problem found while building a
// Registry or resolving a profile.
type Warning struct {
	Code    WarningCode
	Where   string // entity holding the reference, e.g. "feature GL_VERSION_1_0"
	Name    string // offending name
	Message string
}

func (w Warning) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", w.Code)
	if w.Where != "" {
		b.WriteString(" " + w.Where + ":")
	}
	b.WriteString(" " + w.Message)
	return b.String()
}

// Unwrap returns the sentinel error matching the warning code.
func (w Warning) Unwrap() error {
	return codeErrors[w.Code]
}

// Warnings is a list of warnings in emission order.
type Warnings []Warning

func (ws Warnings) Error() string {
	switch len(ws) {
	case 0:
		return "no warnings"
	case 1:
		return ws[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", ws[0].Error(), len(ws)-1)
	}
}

// ByCode returns the warnings with the given code.
func (ws Warnings) ByCode(code WarningCode) Warnings {
	var out Warnings
	for _, w := range ws {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}

func newWarning(code WarningCode, where, name, format string, args ...interface{}) Warning {
	return Warning{
		Code:    code,
		Where:   where,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}
