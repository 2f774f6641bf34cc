package tui

import (
	"strings"

	"github.com/goliatone/go-quicksetup/pkg/setup"
)

// State tracks the stage form data collected so far and the errors reported
// by a previous submission.
type State struct {
	values setup.FormData
	errors *setup.StageErrors
	emit   func(setup.Update)
}

// NewState seeds the state with prefilled values. emit receives every
// update applied through Set.
func NewState(prefill setup.FormData, errs *setup.StageErrors, emit func(setup.Update)) *State {
	values := make(setup.FormData, len(prefill))
	for k, v := range prefill {
		values[k] = deepCopy(v)
	}
	return &State{values: values, errors: errs, emit: emit}
}

// Values returns the collected form data.
func (s *State) Values() setup.FormData {
	if s == nil {
		return nil
	}
	return s.values
}

// Value returns the current value for a form spec id.
func (s *State) Value(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Set records value for id and emits the update.
func (s *State) Set(id string, value any) {
	if s == nil || id == "" {
		return
	}
	update := setup.Update{ID: id, Value: value}
	s.values = s.values.Apply(update)
	if s.emit != nil {
		s.emit(update)
	}
}

// ErrorsFor formats the server-side errors reported for id.
func (s *State) ErrorsFor(id string) []string {
	if s == nil {
		return nil
	}
	messages := s.errors.For(id)
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		text := msg.Message
		if len(msg.Location) > 0 {
			text = strings.Join(msg.Location, ".") + ": " + text
		}
		out = append(out, text)
	}
	return out
}

// StageErrors returns the general errors of the previous submission.
func (s *State) StageErrors() []string {
	if s == nil || s.errors == nil {
		return nil
	}
	return s.errors.StageErrors
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
