// Package widget describes the server-driven widget descriptors a quick setup
// stage is composed of. Descriptors are plain data: they are decoded from
// JSON or YAML documents, carry a type tag plus kind-specific properties, and
// are never validated for shape. Renderers decide what to do with them after
// the tag has been resolved (see package widgets).
package widget
