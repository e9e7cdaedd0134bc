// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an API version number as found in the number attribute of a
// feature, e.g. "4.6" or "2.0".
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses a "major" or "major.minor" version string.
func ParseVersion(s string) (Version, error) {
	var v Version
	if err := v.Set(s); err != nil {
		return Version{}, err
	}
	return v, nil
}

func (v *Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// Type implements pflag.Value.
func (v *Version) Type() string {
	return "version"
}

// Set parses s into v. A missing minor number defaults to 0.
func (v *Version) Set(s string) error {
	end := strings.IndexRune(s, '.')
	if end < 0 {
		end = len(s)
	}

	major, err := parseComponent(s[:end])
	if err != nil {
		return fmt.Errorf("%w %q: bad major number", ErrInvalidVersion, s)
	}
	if end >= len(s) {
		v.Major, v.Minor = major, 0
		return nil
	}
	minor, err := parseComponent(s[end+1:])
	if err != nil {
		return fmt.Errorf("%w %q: bad minor number", ErrInvalidVersion, s)
	}
	v.Major, v.Minor = major, minor
	return nil
}

func parseComponent(s string) (int, error) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Less returns true if v < rhs
func (v *Version) Less(rhs *Version) bool {
	if v.Major == rhs.Major {
		return v.Minor < rhs.Minor
	}
	return v.Major < rhs.Major
}

// Compare returns -1, 0 or +1 depending on whether v is lower, equal or
// greater than rhs.
func (v *Version) Compare(rhs *Version) int {
	switch {
	case v.Less(rhs):
		return -1
	case rhs.Less(v):
		return 1
	}
	return 0
}
