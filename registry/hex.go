// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHex parses a registry numeric value. Values are hexadecimal with an
// optional 0x prefix. A leading minus sign yields the two's complement of
// the value, which is how the registry spells all-ones constants in a few
// places.
func ParseHex(s string) (uint64, error) {
	neg, digits := splitHex(s)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	if neg {
		if v > 1<<63 {
			return 0, fmt.Errorf("%w: %q overflows", ErrMalformedNumber, s)
		}
		return -v, nil
	}
	return v, nil
}

// ToHex formats v the way NormalizeHex spells it.
func ToHex(v uint64) string {
	return "0x" + strings.ToUpper(strconv.FormatUint(v, 16))
}

// NormalizeHex returns the canonical spelling of a registry numeric value:
// a lower case 0x prefix followed by upper case digits without leading
// zeros.
func NormalizeHex(s string) (string, error) {
	neg, digits := splitHex(s)
	if neg {
		v, err := ParseHex(s)
		if err != nil {
			return "", err
		}
		return ToHex(v), nil
	}
	if _, err := strconv.ParseUint(digits, 16, 64); err != nil || digits == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return "0x" + strings.ToUpper(digits), nil
}

func splitHex(s string) (neg bool, digits string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return neg, s
}
