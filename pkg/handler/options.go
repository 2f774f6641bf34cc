package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/renderers/vanilla"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

const defaultMaxBodyBytes = 1 << 20

// GuardFunc rejects a request by returning an error; HTTPError values choose
// the status code.
type GuardFunc func(r *http.Request) error

// HiddenFieldsFunc supplies per-request hidden inputs such as CSRF tokens.
type HiddenFieldsFunc func(r *http.Request) []render.HiddenField

type Options struct {
	Orchestrator *orchestrator.Orchestrator
	Source       setup.Source
	Document     *setup.QuickSetup
	Renderer     string
	ThemeName    string
	ThemeVariant string
	Guard        GuardFunc
	HiddenFields HiddenFieldsFunc
	Logger       *zap.Logger
	MaxBodyBytes int64
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Renderer:     vanilla.Name,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Orchestrator == nil {
		opts.Orchestrator = orchestrator.New(orchestrator.WithLogger(opts.Logger))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == "" {
		opts.Renderer = vanilla.Name
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return opts
}

func WithOrchestrator(orch *orchestrator.Orchestrator) OptionFn {
	return func(o *Options) {
		o.Orchestrator = orch
	}
}

func WithSource(src setup.Source) OptionFn {
	return func(o *Options) {
		o.Source = src
	}
}

func WithDocument(doc setup.QuickSetup) OptionFn {
	return func(o *Options) {
		o.Document = &doc
	}
}

func WithRenderer(name string) OptionFn {
	return func(o *Options) {
		o.Renderer = name
	}
}

func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func WithHiddenFields(fn HiddenFieldsFunc) OptionFn {
	return func(o *Options) {
		o.HiddenFields = fn
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		o.MaxBodyBytes = limit
	}
}
