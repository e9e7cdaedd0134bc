// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentUnreadable))
}

func TestLoadFromBytesMalformed(t *testing.T) {
	_, err := LoadFromBytes([]byte("<registry><types>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	assert.False(t, errors.Is(err, ErrDocumentUnreadable))
}

func TestLoadFromURL(t *testing.T) {
	data, err := os.ReadFile("testdata/gl.xml")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xml/gl.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write(data)
	}))
	defer srv.Close()

	reg, err := LoadFromURL(context.Background(), srv.URL+"/xml/gl.xml")
	require.NoError(t, err)
	assert.Len(t, reg.Commands(), 10)

	_, err = LoadFromURL(context.Background(), srv.URL+"/missing.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentUnreadable))
	assert.Contains(t, err.Error(), "404")
}

func TestLoadFromURLCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, URLSource{URL: srv.URL, Client: srv.Client()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentUnreadable))
}

func TestSourceStrings(t *testing.T) {
	assert.Equal(t, "gl.xml", FileSource{Path: "gl.xml"}.String())
	assert.Equal(t, DefaultURL, URLSource{URL: DefaultURL}.String())
	assert.Equal(t, "<memory>", BytesSource(nil).String())
}
