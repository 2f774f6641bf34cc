package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/renderers/tui"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		stageID int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a stage as HTML or walk it in the terminal",
		Long: `Render a quick setup stage. The vanilla renderer prints HTML; the tui
renderer prompts for every form spec and prints the collected stage as JSON
or pretty text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.documentSource(args)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			renderer := stringFlag(flags, "renderer", a.cfg.Render.Renderer)
			orch, err := a.orchestrator(orchestratorOptions{
				renderer:   renderer,
				formAction: stringFlag(flags, "action", a.cfg.Render.FormAction),
				tuiFormat:  tui.OutputFormat(stringFlag(flags, "format", a.cfg.Render.Output)),
				tuiOptions: []tui.Option{tui.WithOutput(cmd.ErrOrStderr())},
			})
			if err != nil {
				return err
			}

			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Source:       src,
				StageID:      stageID,
				Renderer:     renderer,
				ThemeName:    stringFlag(flags, "theme", a.cfg.Render.ThemeName),
				ThemeVariant: stringFlag(flags, "variant", a.cfg.Render.ThemeVariant),
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.Info("stage written", zap.String("path", output), zap.Int("bytes", len(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&stageID, "stage", "s", 0, "Stage id to render (first stage when 0)")
	cmd.Flags().StringP("renderer", "r", "", "Renderer name (vanilla, tui)")
	cmd.Flags().String("theme", "", "Theme name")
	cmd.Flags().String("variant", "", "Theme variant")
	cmd.Flags().String("action", "", "Form action URL for HTML output")
	cmd.Flags().String("format", "", "TUI output format (json, pretty)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (stdout if empty)")
	return cmd
}
