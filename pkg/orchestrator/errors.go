package orchestrator

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-quicksetup/pkg/setup"
)

// ErrNoSaveAction is returned by Complete when no save action is configured.
var ErrNoSaveAction = errors.New("orchestrator: no save action configured")

// StageRejectedError reports a stage that failed validation while completing
// a quick setup.
type StageRejectedError struct {
	StageID int
	Errors  *setup.StageErrors
}

func (e *StageRejectedError) Error() string {
	return fmt.Sprintf("orchestrator: stage %d failed validation", e.StageID)
}
