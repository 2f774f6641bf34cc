package handler

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the handler under basePath on mux and returns the
// registered pattern.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("handler: missing mux")
	}
	prefix := strings.TrimRight(strings.TrimSpace(basePath), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	pattern := prefix + "/"
	h := New(fns...)
	if prefix != "" {
		h = http.StripPrefix(prefix, h)
	}
	mux.Handle(pattern, h)
	return pattern, nil
}
