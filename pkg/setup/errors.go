package setup

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStages is returned when a quick setup defines no stages.
	ErrNoStages = errors.New("setup: quick setup has no stages")
	// ErrEmptyDocument is returned when a source holds no content.
	ErrEmptyDocument = errors.New("setup: document is empty")
	// ErrUnknownStage matches UnknownStageError through errors.Is.
	ErrUnknownStage = errors.New("setup: unknown stage")
)

// UnknownStageError reports a stage id missing from a quick setup.
type UnknownStageError struct {
	StageID int
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("setup: unknown stage %d", e.StageID)
}

func (e *UnknownStageError) Is(target error) bool {
	return target == ErrUnknownStage
}
