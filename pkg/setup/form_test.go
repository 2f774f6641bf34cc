package setup

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/widget"
)

func TestFormDataFromValues(t *testing.T) {
	stage := Stage{
		StageID: 1,
		Components: []widget.Widget{
			widget.FormSpecWrapper("name", formspec.FormSpec{Schema: map[string]any{"type": "string"}}),
			widget.FormSpecWrapper("enabled", formspec.FormSpec{Schema: map[string]any{"type": "boolean"}}),
			widget.FormSpecWrapper("debug", formspec.FormSpec{Schema: map[string]any{"type": "boolean"}}),
			widget.FormSpecWrapper("port", formspec.FormSpec{Schema: map[string]any{"type": "integer"}}),
			widget.FormSpecWrapper("ratio", formspec.FormSpec{Schema: map[string]any{"type": "number"}}),
			widget.FormSpecWrapper("level", formspec.FormSpec{Schema: map[string]any{"enum": []any{1, 2, 3}}}),
			widget.Collapsible("Advanced",
				widget.FormSpecWrapper("regions", formspec.FormSpec{Schema: map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": []any{"eu", "us", "ap"}},
				}}),
			),
			widget.FormSpecWrapper("creds", formspec.FormSpec{Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key":   map[string]any{"type": "string"},
					"retry": map[string]any{"type": "integer"},
				},
			}}),
			widget.FormSpecWrapper("empty", formspec.FormSpec{Schema: map[string]any{"type": "string"}}),
		},
	}
	values := url.Values{
		"stage_id":    {"1"},
		"_csrf":       {"token"},
		"name":        {" alice "},
		"enabled":     {"true"},
		"port":        {"8080"},
		"ratio":       {"abc"},
		"level":       {"2"},
		"regions":     {"eu", "ap"},
		"creds.key":   {"AKIA"},
		"creds.retry": {"3"},
		"empty":       {"  "},
	}

	want := FormData{
		"name":    "alice",
		"enabled": true,
		"debug":   false,
		"port":    int64(8080),
		"ratio":   "abc",
		"level":   float64(2),
		"regions": []any{"eu", "ap"},
		"creds":   map[string]any{"key": "AKIA", "retry": int64(3)},
	}
	if diff := cmp.Diff(want, FormDataFromValues(stage, values)); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
}

func TestFormDataFromValues_ValidatesLikeJSON(t *testing.T) {
	stage := Stage{
		StageID: 1,
		Components: []widget.Widget{
			widget.FormSpecWrapper("creds", formspec.FormSpec{
				Required: true,
				Schema: map[string]any{
					"type":     "object",
					"required": []any{"key"},
					"properties": map[string]any{
						"key": map[string]any{"type": "string", "minLength": 1},
					},
				},
			}),
		},
	}

	if errs := ValidateStage(stage, FormDataFromValues(stage, url.Values{"creds.key": {"AKIA"}})); errs != nil {
		t.Fatalf("expected valid stage, got %+v", errs)
	}
	errs := ValidateStage(stage, FormDataFromValues(stage, url.Values{}))
	if errs == nil || len(errs.For("creds")) == 0 {
		t.Fatalf("expected required error for creds, got %+v", errs)
	}
}
