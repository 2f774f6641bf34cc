// Package handler serves a quick setup over HTTP: rendered stages, the stage
// overview, stage submission, and completion.
package handler
