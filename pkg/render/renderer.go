package render

import (
	"context"

	"github.com/goliatone/go-quicksetup/pkg/setup"
)

// Renderer turns a quick setup stage into an output representation (HTML, a
// terminal session transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, stage setup.Stage, options RenderOptions) ([]byte, error)
}
