// Package setup models quick setups: ordered stages whose components are
// widget trees, plus the form data users submit for each stage.
package setup

import (
	"maps"

	"github.com/goliatone/go-quicksetup/pkg/widget"
)

// QuickSetup is a multi-stage configuration wizard.
type QuickSetup struct {
	ID                  string  `json:"id" yaml:"id"`
	Title               string  `json:"title" yaml:"title"`
	ButtonCompleteLabel string  `json:"button_complete_label,omitempty" yaml:"button_complete_label,omitempty"`
	Stages              []Stage `json:"stages" yaml:"stages"`
}

// Stage is a single step of a quick setup.
type Stage struct {
	StageID    int             `json:"stage_id" yaml:"stage_id"`
	Title      string          `json:"title" yaml:"title"`
	SubTitle   string          `json:"sub_title,omitempty" yaml:"sub_title,omitempty"`
	Components []widget.Widget `json:"components" yaml:"components"`
	ButtonTxt  string          `json:"button_txt,omitempty" yaml:"button_txt,omitempty"`
}

// StageOverview summarises a stage without its components.
type StageOverview struct {
	StageID  int    `json:"stage_id"`
	Title    string `json:"title"`
	SubTitle string `json:"sub_title,omitempty"`
}

// FormData holds submitted values keyed by form spec id.
type FormData map[string]any

// Update is the change notification a component emits when its value
// changes.
type Update struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// IncomingStage is the payload a client submits for a stage.
type IncomingStage struct {
	StageID  int      `json:"stage_id"`
	FormData FormData `json:"form_data"`
}

// Apply returns a copy of d with the update applied. Updates without an id
// are ignored.
func (d FormData) Apply(update Update) FormData {
	out := make(FormData, len(d)+1)
	maps.Copy(out, d)
	if update.ID == "" {
		return out
	}
	out[update.ID] = update.Value
	return out
}

// Stage returns the stage with the given id. A zero id selects the first
// stage.
func (q QuickSetup) Stage(id int) (Stage, error) {
	if len(q.Stages) == 0 {
		return Stage{}, ErrNoStages
	}
	if id == 0 {
		return q.Stages[0], nil
	}
	for _, stage := range q.Stages {
		if stage.StageID == id {
			return stage, nil
		}
	}
	return Stage{}, &UnknownStageError{StageID: id}
}

// Next returns the stage following id. ok is false when id is the last
// stage or unknown.
func (q QuickSetup) Next(id int) (Stage, bool) {
	for idx, stage := range q.Stages {
		if stage.StageID != id {
			continue
		}
		if idx+1 < len(q.Stages) {
			return q.Stages[idx+1], true
		}
		return Stage{}, false
	}
	return Stage{}, false
}

// Overview lists every stage in order.
func (q QuickSetup) Overview() []StageOverview {
	out := make([]StageOverview, 0, len(q.Stages))
	for _, stage := range q.Stages {
		out = append(out, StageOverview{
			StageID:  stage.StageID,
			Title:    stage.Title,
			SubTitle: stage.SubTitle,
		})
	}
	return out
}
