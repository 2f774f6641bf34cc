package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/internal/config"
	"github.com/goliatone/go-quicksetup/internal/logging"
	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/renderers/tui"
	"github.com/goliatone/go-quicksetup/pkg/renderers/vanilla"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

// app carries state shared by every subcommand once the root pre-run hook
// has loaded configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "quicksetup",
		Short: "Render and validate multi-stage quick setup wizards",
		Long: `quicksetup loads quick setup documents (JSON or YAML), resolves every
widget to its renderer and draws stages as HTML or as an interactive
terminal session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ./quicksetup.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRenderCmd(a),
		newResolveCmd(),
		newWidgetsCmd(),
		newValidateCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// stringFlag returns the flag value when set on the command line and the
// configured value otherwise.
func stringFlag(flags *pflag.FlagSet, name, configured string) string {
	if flags.Changed(name) {
		if v, err := flags.GetString(name); err == nil {
			return v
		}
	}
	return configured
}

// documentSource picks the positional argument over the configured document
// path.
func (a *app) documentSource(args []string) (setup.Source, error) {
	location := a.cfg.Document.Path
	if len(args) > 0 {
		location = args[0]
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("no quick setup document given (argument or document.path)")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return setup.SourceFromURL(location), nil
	}
	return setup.SourceFromFile(location), nil
}

type orchestratorOptions struct {
	renderer     string
	formAction   string
	tuiFormat    tui.OutputFormat
	tuiOptions   []tui.Option
	extraOptions []orchestrator.Option
}

func (a *app) orchestrator(opts orchestratorOptions) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New(vanilla.WithFormAction(opts.formAction))
	if err != nil {
		return nil, err
	}
	registry.MustRegister(html)

	tuiOpts := append([]tui.Option{tui.WithOutputFormat(opts.tuiFormat)}, opts.tuiOptions...)
	terminal, err := tui.New(tuiOpts...)
	if err != nil {
		return nil, err
	}
	registry.MustRegister(terminal)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(opts.renderer),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithLoader(setup.NewLoader(
			setup.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		)),
	}
	options = append(options, opts.extraOptions...)
	return orchestrator.New(options...), nil
}
