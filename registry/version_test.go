// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.0", want: Version{1, 0}},
		{in: "3.3", want: Version{3, 3}},
		{in: "4.6", want: Version{4, 6}},
		{in: "10.12", want: Version{10, 12}},
		{in: "2", want: Version{2, 0}},
		{in: "", wantErr: true},
		{in: "3.", wantErr: true},
		{in: ".3", wantErr: true},
		{in: "a.b", wantErr: true},
		{in: "-1.0", wantErr: true},
		{in: "1.+2", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidVersion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionString(t *testing.T) {
	v := Version{Major: 4, Minor: 6}
	assert.Equal(t, "4.6", v.String())

	var f Version
	require.NoError(t, f.Set("3"))
	assert.Equal(t, "3.0", f.String())
	assert.Equal(t, "version", f.Type())
	assert.Equal(t, Version{3, 0}, f)
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"1.5", "1.10", -1},
		{"9.0", "10.0", -1},
		{"3.2", "3.1", 1},
		{"4.0", "3.3", 1},
	}
	for _, tt := range tests {
		a, err := ParseVersion(tt.a)
		require.NoError(t, err)
		b, err := ParseVersion(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Compare(&b), "%s vs %s", tt.a, tt.b)
		assert.Equal(t, tt.want < 0, a.Less(&b), "%s < %s", tt.a, tt.b)
	}
}
