// Package template defines the template rendering seam shared by the HTML
// renderers, with a pongo2 backed implementation in the gotemplate
// subpackage.
package template
