package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrMissingFormSpecID is returned for form spec widgets without an id,
	// since their value could not be keyed in the stage form data.
	ErrMissingFormSpecID = errors.New("tui: form spec widget has no id")
	// ErrInvalidSchema is returned when a form spec schema cannot compile.
	ErrInvalidSchema = errors.New("tui: invalid form spec schema")
	// ErrTooManyAttempts is returned when answers keep failing validation.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
