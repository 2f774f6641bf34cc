package handler

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var httpErr HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, setup.ErrUnknownStage):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrNoSaveAction):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
