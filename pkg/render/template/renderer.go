package template

import "io"

// TemplateRenderer is the seam component renderers use to execute templates.
// Implementations return the rendered string and also write it to every
// supplied writer.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
