// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DefaultURL is the location of the upstream gl.xml.
const DefaultURL = "https://raw.githubusercontent.com/KhronosGroup/OpenGL-Registry/master/xml/gl.xml"

// A Source provides the raw bytes of a registry document. Errors wrap
// ErrDocumentUnreadable.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads a document from the local file system.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return data, nil
}

func (s FileSource) String() string { return s.Path }

// BytesSource is an in-memory document.
type BytesSource []byte

func (s BytesSource) Load(ctx context.Context) ([]byte, error) {
	return s, nil
}

func (s BytesSource) String() string { return "<memory>" }

// URLSource fetches a document over http(s). A nil Client means
// http.DefaultClient.
type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	c := s.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrDocumentUnreadable, s.URL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return data, nil
}

func (s URLSource) String() string { return s.URL }

// Load reads a document from src, scans it and builds a Registry.
func Load(ctx context.Context, src Source, opts ...BuildOption) (*Registry, error) {
	cfg := newBuildConfig(opts)
	cfg.logger.Debug("loading registry", "source", fmt.Sprint(src))
	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := Scan(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("registry scanned", "bytes", len(data))
	return Build(recs, opts...), nil
}

func LoadFromBytes(data []byte, opts ...BuildOption) (*Registry, error) {
	return Load(context.Background(), BytesSource(data), opts...)
}

func LoadFromPath(path string, opts ...BuildOption) (*Registry, error) {
	return Load(context.Background(), FileSource{Path: path}, opts...)
}

func LoadFromURL(ctx context.Context, url string, opts ...BuildOption) (*Registry, error) {
	return Load(ctx, URLSource{URL: url}, opts...)
}
