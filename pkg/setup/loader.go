package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDocumentBytes caps documents fetched over HTTP.
const DefaultMaxDocumentBytes int64 = 10 << 20

// ErrDocumentTooLarge is returned when a fetched document exceeds the
// loader's size limit.
var ErrDocumentTooLarge = errors.New("setup loader: document too large")

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the fs.FS used for SourceKindFS sources.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.http = client
	}
}

// WithRequestTimeout bounds HTTP loads.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithMaxDocumentBytes bounds the size of documents fetched over HTTP.
// Non positive values keep the default.
func WithMaxDocumentBytes(limit int64) LoaderOption {
	return func(l *Loader) {
		if limit > 0 {
			l.maxBytes = limit
		}
	}
}

// Loader reads quick setup documents from files, fs.FS, HTTP, or memory.
type Loader struct {
	fs       fs.FS
	http     *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewLoader constructs a Loader. URL sources stay disabled unless an HTTP
// client is supplied.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{maxBytes: DefaultMaxDocumentBytes}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Load fetches and decodes the document identified by src.
func (l *Loader) Load(ctx context.Context, src Source) (QuickSetup, error) {
	if src == nil {
		return QuickSetup{}, errors.New("setup loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return QuickSetup{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return QuickSetup{}, errors.New("setup loader: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		data, err = l.loadHTTP(ctx, src.Location())
	case SourceKindBytes:
		if b, ok := src.(BytesSource); ok {
			data = b.Data
		} else {
			err = errors.New("setup loader: unsupported bytes source")
		}
	default:
		err = fmt.Errorf("setup loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return QuickSetup{}, fmt.Errorf("setup loader: read %s: %w", src.Location(), err)
	}

	return Decode(data, src.Location())
}

func (l *Loader) loadHTTP(ctx context.Context, location string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("http support disabled")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, l.maxBytes)
	}
	return data, nil
}

// Decode parses a JSON or YAML quick setup document. The format follows the
// file extension of name; other names are sniffed from the content.
func Decode(data []byte, name string) (QuickSetup, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return QuickSetup{}, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	var doc QuickSetup
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return QuickSetup{}, fmt.Errorf("setup: parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return QuickSetup{}, fmt.Errorf("setup: parse %s: %w", name, err)
		}
	default:
		if trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return QuickSetup{}, fmt.Errorf("setup: parse %s: %w", name, err)
			}
			break
		}
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return QuickSetup{}, fmt.Errorf("setup: parse %s: invalid JSON or YAML: %w", name, err)
		}
	}
	return doc, nil
}
