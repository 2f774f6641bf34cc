package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

var errStageRejected = errors.New("stage rejected")

func newValidateCmd(a *app) *cobra.Command {
	var (
		stageID int
		data    string
	)

	cmd := &cobra.Command{
		Use:   "validate [document]",
		Short: "Validate form data against a stage",
		Long: `Validate submitted form data against a stage and print the stage
response. Data is a JSON object keyed by form spec id, given inline or as
@path to read it from a file. Rejected stages exit non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.documentSource(args)
			if err != nil {
				return err
			}
			formData, err := readFormData(data)
			if err != nil {
				return err
			}

			orch, err := a.orchestrator(orchestratorOptions{renderer: a.cfg.Render.Renderer})
			if err != nil {
				return err
			}

			resp, err := orch.Validate(cmd.Context(), orchestrator.Request{Source: src}, setup.IncomingStage{
				StageID:  stageID,
				FormData: formData,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return err
			}
			if !resp.Valid() {
				return fmt.Errorf("stage %d: %w", stageID, errStageRejected)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&stageID, "stage", "s", 1, "Stage id to validate")
	cmd.Flags().StringVarP(&data, "data", "d", "{}", "Form data as JSON or @file")
	return cmd
}

func readFormData(raw string) (setup.FormData, error) {
	raw = strings.TrimSpace(raw)
	payload := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read form data: %w", err)
		}
		payload = b
	}
	if len(payload) == 0 {
		return setup.FormData{}, nil
	}

	var data setup.FormData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode form data: %w", err)
	}
	if data == nil {
		data = setup.FormData{}
	}
	return data, nil
}
