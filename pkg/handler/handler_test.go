package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
)

func testSetup() setup.QuickSetup {
	return setup.QuickSetup{
		ID:                  "quick_setup_test",
		Title:               "Quick Setup Test",
		ButtonCompleteLabel: "Complete",
		Stages: []setup.Stage{
			{
				StageID:   1,
				Title:     "stage1",
				ButtonTxt: "Next",
				Components: []widget.Widget{
					widget.FormSpecWrapper("formspec_unique_id", formspec.FormSpec{
						Title:    "account name",
						Required: true,
						Schema: map[string]any{
							"type":     "object",
							"required": []any{"bundle_id"},
							"properties": map[string]any{
								"bundle_id": map[string]any{"type": "string"},
							},
						},
					}),
				},
			},
			{StageID: 2, Title: "stage2", ButtonTxt: "Finish"},
		},
	}
}

func serve(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, payload
}

func TestHandler_Overview(t *testing.T) {
	h := New(WithDocument(testSetup()))
	rec, payload := serve(t, h, http.MethodGet, "/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	overviews, _ := payload["overviews"].([]any)
	stage, _ := payload["stage"].(map[string]any)
	if len(overviews) != 2 || stage["button_txt"] != "Next" {
		t.Fatalf("unexpected overview payload %#v", payload)
	}
	components, _ := stage["components"].([]any)
	if len(components) != 1 {
		t.Fatalf("expected first stage components, got %#v", stage["components"])
	}
}

func TestHandler_RenderStage(t *testing.T) {
	h := New(
		WithDocument(testSetup()),
		WithHiddenFields(func(*http.Request) []render.HiddenField {
			return []render.HiddenField{render.CSRFToken("_csrf", "tok")}
		}),
	)

	rec, _ := serve(t, h, http.MethodGet, "/stages/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}
	body := rec.Body.String()
	for _, fragment := range []string{`id="qs-stage-1"`, `<input type="hidden" name="_csrf" value="tok">`, `name="formspec_unique_id.bundle_id"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}

	if rec, _ := serve(t, h, http.MethodGet, "/stages/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
	if rec, _ := serve(t, h, http.MethodGet, "/stages/9", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown stage, got %d", rec.Code)
	}
}

func TestHandler_SubmitValidStage(t *testing.T) {
	h := New(WithDocument(testSetup()))
	rec, payload := serve(t, h, http.MethodPost, "/stages",
		`{"stage_id": 1, "form_data": {"formspec_unique_id": {"bundle_id": "test_account_name"}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["stage_id"] != float64(2) || payload["errors"] != nil || payload["button_txt"] != "Finish" {
		t.Fatalf("unexpected response %#v", payload)
	}
	if recap, _ := payload["stage_recap"].([]any); len(recap) != 1 {
		t.Fatalf("expected one recap entry, got %#v", payload["stage_recap"])
	}
}

func TestHandler_SubmitInvalidStage(t *testing.T) {
	h := New(WithDocument(testSetup()))
	rec, payload := serve(t, h, http.MethodPost, "/stages",
		`{"stage_id": 1, "form_data": {"formspec_unique_id": {"bundle_id": 5}}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if payload["stage_id"] != float64(1) {
		t.Fatalf("expected submitted stage id, got %#v", payload["stage_id"])
	}
	if value, ok := payload["button_txt"]; !ok || value != nil {
		t.Fatalf("expected button_txt null, got %#v (present=%v)", value, ok)
	}

	errs, _ := payload["errors"].(map[string]any)
	if diff := cmp.Diff([]any{}, errs["stage_errors"]); diff != "" {
		t.Fatalf("stage errors mismatch (-want +got):\n%s", diff)
	}
	formspecErrors, _ := errs["formspec_errors"].(map[string]any)
	messages, _ := formspecErrors["formspec_unique_id"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one message, got %#v", formspecErrors)
	}
	msg := messages[0].(map[string]any)
	if diff := cmp.Diff([]any{"bundle_id"}, msg["location"]); diff != "" {
		t.Fatalf("location mismatch (-want +got):\n%s", diff)
	}
	if msg["invalid_value"] != float64(5) || msg["message"] == "" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestHandler_SubmitBadRequests(t *testing.T) {
	h := New(WithDocument(testSetup()), WithMaxBodyBytes(64))

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "empty", body: "", want: http.StatusBadRequest},
		{name: "malformed", body: "{", want: http.StatusBadRequest},
		{name: "unknown stage", body: `{"stage_id": 7}`, want: http.StatusNotFound},
		{name: "too large", body: `{"stage_id": 1, "form_data": {"x": "` + strings.Repeat("a", 128) + `"}}`, want: http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, payload := serve(t, h, http.MethodPost, "/stages", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if payload["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestHandler_Complete(t *testing.T) {
	body := `{"stages": [{"stage_id": 1, "form_data": {"formspec_unique_id": {"bundle_id": "x"}}}, {"stage_id": 2}]}`

	h := New(WithDocument(testSetup()))
	if rec, _ := serve(t, h, http.MethodPost, "/complete", body); rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 without save action, got %d", rec.Code)
	}

	orch := orchestrator.New(orchestrator.WithSaveAction(func(context.Context, setup.QuickSetup, []setup.IncomingStage) (string, error) {
		return "http://save/url", nil
	}))
	h = New(WithDocument(testSetup()), WithOrchestrator(orch))

	rec, payload := serve(t, h, http.MethodPost, "/complete", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(map[string]any{"redirect_url": "http://save/url"}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	rec, payload = serve(t, h, http.MethodPost, "/complete", `{"stages": [{"stage_id": 1, "form_data": {}}]}`)
	if rec.Code != http.StatusBadRequest || payload["stage_id"] != float64(1) || payload["errors"] == nil {
		t.Fatalf("expected rejected stage 1, got %d %#v", rec.Code, payload)
	}
}

func TestHandler_Guard(t *testing.T) {
	h := New(WithDocument(testSetup()), WithGuard(func(r *http.Request) error {
		if r.Header.Get("Authorization") == "" {
			return StatusError{Code: http.StatusUnauthorized}
		}
		return nil
	}))

	if rec, _ := serve(t, h, http.MethodGet, "/overview", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	forbidden := New(WithDocument(testSetup()), WithGuard(func(*http.Request) error { return errors.New("nope") }))
	if rec, _ := serve(t, forbidden, http.MethodGet, "/overview", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New(WithDocument(testSetup()))
	if rec, _ := serve(t, h, http.MethodDelete, "/stages", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MountsUnderBasePath(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "setup", WithDocument(testSetup()))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/setup/" {
		t.Fatalf("unexpected pattern %q", pattern)
	}
	if rec, _ := serve(t, mux, http.MethodGet, "/setup/overview", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := RegisterRoutes(nil, "/x"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestStatusError(t *testing.T) {
	err := StatusError{Code: http.StatusTeapot, Err: errors.New("brew")}
	if err.Error() != "brew" || err.StatusCode() != http.StatusTeapot || !errors.Is(err, err.Err) {
		t.Fatalf("unexpected status error behaviour")
	}
	if (StatusError{}).StatusCode() != http.StatusInternalServerError {
		t.Fatalf("zero code should map to 500")
	}
}

var inputPattern = regexp.MustCompile(`<input[^>]*\sname="([^"]+)"[^>]*\svalue="([^"]*)"`)

// formFields collects the name/value pairs a browser would post for the
// inputs of a rendered stage.
func formFields(t *testing.T, body string) url.Values {
	t.Helper()
	values := url.Values{}
	for _, match := range inputPattern.FindAllStringSubmatch(body, -1) {
		values.Add(match[1], match[2])
	}
	if len(values) == 0 {
		t.Fatalf("no inputs found in:\n%s", body)
	}
	return values
}

func postForm(t *testing.T, h http.Handler, target string, values url.Values) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return rec, payload
}

func TestHandler_SubmitRenderedForm(t *testing.T) {
	h := New(
		WithDocument(testSetup()),
		WithHiddenFields(func(*http.Request) []render.HiddenField {
			return []render.HiddenField{render.CSRFToken("_csrf", "tok")}
		}),
	)

	rec, _ := serve(t, h, http.MethodGet, "/stages/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	fields := formFields(t, rec.Body.String())
	if diff := cmp.Diff(url.Values{
		"stage_id":                     {"1"},
		"_csrf":                        {"tok"},
		"formspec_unique_id.bundle_id": {""},
	}, fields); diff != "" {
		t.Fatalf("rendered fields mismatch (-want +got):\n%s", diff)
	}

	rec, payload := postForm(t, h, "/stages", fields)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty form, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["stage_id"] != float64(1) || payload["button_txt"] != nil {
		t.Fatalf("unexpected rejection %#v", payload)
	}
	errs, _ := payload["errors"].(map[string]any)
	specErrs, _ := errs["formspec_errors"].(map[string]any)
	if _, ok := specErrs["formspec_unique_id"]; !ok {
		t.Fatalf("expected form spec error, got %#v", payload["errors"])
	}

	fields.Set("formspec_unique_id.bundle_id", "alice")
	rec, payload = postForm(t, h, "/stages", fields)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["stage_id"] != float64(2) || payload["errors"] != nil || payload["button_txt"] != "Finish" {
		t.Fatalf("unexpected response %#v", payload)
	}
}

func TestHandler_SubmitFormBadRequests(t *testing.T) {
	h := New(WithDocument(testSetup()))

	tests := []struct {
		name   string
		values url.Values
		want   int
	}{
		{name: "missing stage id", values: url.Values{"x": {"1"}}, want: http.StatusBadRequest},
		{name: "non numeric stage id", values: url.Values{"stage_id": {"one"}}, want: http.StatusBadRequest},
		{name: "stage zero", values: url.Values{"stage_id": {"0"}}, want: http.StatusNotFound},
		{name: "unknown stage", values: url.Values{"stage_id": {"9"}}, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, payload := postForm(t, h, "/stages", tt.values)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if _, ok := payload["error"]; !ok {
				t.Fatalf("expected error payload, got %#v", payload)
			}
		})
	}
}
