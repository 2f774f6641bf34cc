package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

type completeRequest struct {
	Stages []setup.IncomingStage `json:"stages"`
}

type rejectedResponse struct {
	StageID int                `json:"stage_id"`
	Errors  *setup.StageErrors `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the quick setup handler with default options plus overrides.
//
// Routes:
//
//	GET  /overview      stage overview and first stage (JSON)
//	GET  /stages/{id}   rendered stage (HTML)
//	POST /stages        validate a submitted stage (JSON or HTML form post)
//	POST /complete      validate all stages and save (JSON)
func New(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	s := &server{opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /overview", s.guarded(s.overview))
	mux.HandleFunc("GET /stages/{id}", s.guarded(s.stage))
	mux.HandleFunc("POST /stages", s.guarded(s.submit))
	mux.HandleFunc("POST /complete", s.guarded(s.complete))
	return mux
}

type server struct {
	opts Options
}

func (s *server) request() orchestrator.Request {
	return orchestrator.Request{
		Source:       s.opts.Source,
		Document:     s.opts.Document,
		Renderer:     s.opts.Renderer,
		ThemeName:    s.opts.ThemeName,
		ThemeVariant: s.opts.ThemeVariant,
	}
}

func (s *server) guarded(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Guard != nil {
			if err := s.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		next(w, r)
	}
}

func (s *server) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.opts.Orchestrator.Overview(r.Context(), s.request())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *server) stage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		s.fail(w, r, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("handler: invalid stage id %q", r.PathValue("id"))})
		return
	}

	req := s.request()
	req.StageID = id
	if s.opts.HiddenFields != nil {
		req.RenderOptions.Hidden = s.opts.HiddenFields(r)
	}

	out, err := s.opts.Orchestrator.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *server) submit(w http.ResponseWriter, r *http.Request) {
	var incoming setup.IncomingStage
	var err error
	if isFormPost(r) {
		incoming, err = s.decodeForm(w, r)
	} else {
		err = s.decode(w, r, &incoming)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.opts.Orchestrator.Validate(r.Context(), s.request(), incoming)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if !resp.Valid() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *server) complete(w http.ResponseWriter, r *http.Request) {
	var payload completeRequest
	if err := s.decode(w, r, &payload); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.opts.Orchestrator.Complete(r.Context(), s.request(), payload.Stages)
	var rejected *orchestrator.StageRejectedError
	if errors.As(err, &rejected) {
		writeJSON(w, http.StatusBadRequest, rejectedResponse{StageID: rejected.StageID, Errors: rejected.Errors})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, target any) error {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return StatusError{Code: http.StatusBadRequest, Err: errors.New("handler: request body is empty")}
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("handler: decode body: %w", err)}
	}
	return nil
}

// decodeForm rebuilds an incoming stage from a form rendered by the vanilla
// renderer: the hidden stage_id field selects the stage whose form specs
// type the remaining fields.
func (s *server) decodeForm(w http.ResponseWriter, r *http.Request) (setup.IncomingStage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return setup.IncomingStage{}, StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return setup.IncomingStage{}, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("handler: parse form: %w", err)}
	}

	raw := strings.TrimSpace(r.PostForm.Get("stage_id"))
	stageID, err := strconv.Atoi(raw)
	if err != nil {
		return setup.IncomingStage{}, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("handler: invalid stage id %q", raw)}
	}
	stage, err := s.opts.Orchestrator.SubmittedStage(r.Context(), s.request(), stageID)
	if err != nil {
		return setup.IncomingStage{}, err
	}
	return setup.IncomingStage{
		StageID:  stageID,
		FormData: setup.FormDataFromValues(stage, r.PostForm),
	}, nil
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.opts.Logger.Error("quick setup request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
		return
	}
	s.opts.Logger.Debug("quick setup request rejected",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	)
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
