package setup

import (
	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/widget"
)

// StageErrors groups the validation failures of a submitted stage.
type StageErrors struct {
	FormSpecErrors map[string][]formspec.ValidationMessage `json:"formspec_errors"`
	StageErrors    []string                                `json:"stage_errors"`
}

// Empty reports whether no errors were recorded.
func (e *StageErrors) Empty() bool {
	return e == nil || (len(e.FormSpecErrors) == 0 && len(e.StageErrors) == 0)
}

// For returns the messages recorded for a form spec id.
func (e *StageErrors) For(id string) []formspec.ValidationMessage {
	if e == nil {
		return nil
	}
	return e.FormSpecErrors[id]
}

// StageValidator adds general, stage wide errors after form specs validate.
type StageValidator func(data FormData, specs map[string]formspec.FormSpec) []string

// FormSpecs collects every form spec widget in the stage, nested ones
// included, keyed by id. Widgets without an id or spec are skipped.
func FormSpecs(stage Stage) map[string]formspec.FormSpec {
	out := make(map[string]formspec.FormSpec)
	widget.Walk(stage.Components, func(w widget.Widget) bool {
		if w.Kind() == widget.KindFormSpec && w.ID != "" && w.FormSpec != nil {
			out[w.ID] = *w.FormSpec
		}
		return true
	})
	return out
}

// ValidateStage checks data against the stage's form specs and then runs the
// supplied validators. Validators only run when every form spec passed. The
// result is nil when the stage is valid.
func ValidateStage(stage Stage, data FormData, validators ...StageValidator) *StageErrors {
	specs := FormSpecs(stage)
	errs := &StageErrors{
		FormSpecErrors: make(map[string][]formspec.ValidationMessage),
		StageErrors:    []string{},
	}

	for id, spec := range specs {
		if msgs := formspec.Validate(spec, data[id]); len(msgs) > 0 {
			errs.FormSpecErrors[id] = msgs
		}
	}

	if len(errs.FormSpecErrors) == 0 {
		for _, validate := range validators {
			if validate == nil {
				continue
			}
			errs.StageErrors = append(errs.StageErrors, validate(data, specs)...)
		}
	}

	if errs.Empty() {
		return nil
	}
	return errs
}
