package setup

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// SourceKind enumerates where a document is read from.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindURL   SourceKind = "url"
	SourceKindBytes SourceKind = "bytes"
)

// Source identifies a quick setup document.
type Source interface {
	Kind() SourceKind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source naming a file inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses raw and returns a Source. It panics on invalid URLs to
// surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("setup: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("setup: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// BytesSource carries an in-memory document. Name is used for format
// detection and error messages.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Location() string { return s.Name }
func (s BytesSource) Kind() SourceKind { return SourceKindBytes }

// SourceFromBytes wraps data as a Source.
func SourceFromBytes(name string, data []byte) Source {
	return BytesSource{Name: name, Data: data}
}
