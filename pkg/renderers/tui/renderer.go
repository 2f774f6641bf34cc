package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// Name is the identifier the renderer registers under.
const Name = "tui"

// Renderer walks a stage in the terminal, prompting for every form spec and
// printing the informational widgets. The result is the incoming stage
// payload a client would submit.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	styles       Styles
	components   map[widgets.RendererID]Component
	maxAttempts  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		styles:       DefaultStyles(),
		maxAttempts:  DefaultMaxAttempts,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.components == nil {
		r.components = defaultComponents()
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts through the stage and serializes the collected values.
func (r *Renderer) Render(ctx context.Context, stage setup.Stage, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	session := &Session{
		renderer: r,
		styles:   StylesFromTheme(r.styles, opts.Theme),
		state:    NewState(opts.Values, opts.Errors, opts.Emit),
	}

	if err := session.header(ctx, stage); err != nil {
		return nil, err
	}
	if err := session.RenderChildren(ctx, stage.Components); err != nil {
		return nil, err
	}

	return r.serialize(stage, setup.IncomingStage{
		StageID:  stage.StageID,
		FormData: session.state.Values(),
	})
}

// Session is the per-render context handed to components.
type Session struct {
	renderer *Renderer
	styles   Styles
	state    *State
	depth    int
	marker   string
}

// Driver returns the prompt driver.
func (s *Session) Driver() PromptDriver {
	return s.renderer.driver
}

// Styles returns the styles in effect for this render.
func (s *Session) Styles() Styles {
	return s.styles
}

// State returns the collected form data.
func (s *Session) State() *State {
	return s.state
}

// Print writes a message indented to the current nesting depth. A pending
// list marker is placed in front of the first line.
func (s *Session) Print(ctx context.Context, msg string) error {
	prefix := strings.Repeat("  ", s.depth)
	if s.marker != "" {
		prefix += s.styles.Marker.Render(s.marker) + " "
		s.marker = ""
	}
	return s.Driver().Info(ctx, prefix+msg)
}

// RenderChildren draws nested widgets one level deeper.
func (s *Session) RenderChildren(ctx context.Context, items []widget.Widget) error {
	for _, item := range items {
		if err := s.render(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Nested returns a session one level deeper, optionally carrying a list
// marker for the first printed line.
func (s *Session) Nested(marker string) *Session {
	child := *s
	child.depth++
	child.marker = marker
	return &child
}

func (s *Session) render(ctx context.Context, item widget.Widget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := widgets.ResolveWidget(item)
	component, ok := s.renderer.components[id]
	if !ok {
		component, ok = s.renderer.components[widgets.RendererNone]
	}
	if !ok || component == nil {
		return nil
	}
	if err := component(ctx, s, item); err != nil {
		return fmt.Errorf("tui: widget %s: %w", id, err)
	}
	return nil
}

func (s *Session) header(ctx context.Context, stage setup.Stage) error {
	if title := strings.TrimSpace(stage.Title); title != "" {
		if err := s.Print(ctx, s.styles.Title.Render(title)); err != nil {
			return err
		}
	}
	if subtitle := strings.TrimSpace(stage.SubTitle); subtitle != "" {
		if err := s.Print(ctx, s.styles.Subtitle.Render(subtitle)); err != nil {
			return err
		}
	}
	for _, msg := range s.state.StageErrors() {
		if err := s.Print(ctx, s.styles.Error.Render(msg)); err != nil {
			return err
		}
	}
	return nil
}

// serialize encodes the collected stage. JSON is the submission payload and
// keeps every value; pretty text is for people and masks secrets.
func (r *Renderer) serialize(stage setup.Stage, incoming setup.IncomingStage) ([]byte, error) {
	if incoming.FormData == nil {
		incoming.FormData = setup.FormData{}
	}
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(incoming, setup.FormSpecs(stage))), nil
	}
	payload, err := json.MarshalIndent(incoming, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode stage: %w", err)
	}
	return payload, nil
}

func prettyPrint(incoming setup.IncomingStage, specs map[string]formspec.FormSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "stage_id: %d\n", incoming.StageID)

	keys := make([]string, 0, len(incoming.FormData))
	for key := range incoming.FormData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := incoming.FormData[key]
		if spec, ok := specs[key]; ok {
			value = formspec.Redact(spec, value)
		}
		writePretty(&b, key, value)
	}
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, prefix+"."+key, typed[key])
		}
	case []any:
		for i, item := range typed {
			writePretty(b, fmt.Sprintf("%s.%d", prefix, i), item)
		}
	default:
		fmt.Fprintf(b, "%s: %v\n", prefix, typed)
	}
}
