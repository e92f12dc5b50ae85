package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/gateway"
	"github.com/debemdeboas/the-drafts/internal/model"
	"github.com/debemdeboas/the-drafts/internal/publish"
)

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <drafts.json>",
		Short: "Publish drafts from a JSON export",
		Long: `Publish every draft in a JSON file to the configured repository.

The file holds either {"drafts": [...]} or a bare array of drafts, as
exported from the editor's drafts_v1 value. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			drafts, err := parseDrafts(data)
			if err != nil {
				return err
			}

			gh, err := gateway.New(config.AppConfig.GitHub, nil)
			if err != nil {
				return err
			}

			report, err := publish.NewWorkflow(gh, config.AppConfig.GitHub).Publish(cmd.Context(), drafts)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("%d of %d drafts failed", report.Failed(), len(report.Results))
			}
			return nil
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// parseDrafts accepts {"drafts": [...]} or a bare array.
func parseDrafts(data []byte) ([]model.Draft, error) {
	data = bytes.TrimSpace(data)

	var drafts []model.Draft
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &drafts); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrInvalidPayload, err)
		}
		return drafts, nil
	}

	var payload struct {
		Drafts []model.Draft `json:"drafts"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidPayload, err)
	}
	if payload.Drafts == nil {
		return nil, fmt.Errorf("%s", config.ErrInvalidPayload)
	}
	return payload.Drafts, nil
}

func printReport(w io.Writer, report model.Report) {
	fmt.Fprintln(w, out.heading.Render(fmt.Sprintf("Published %d drafts", len(report.Results))))

	for _, res := range report.Results {
		switch o := res.Outcome.(type) {
		case model.Success:
			fmt.Fprintf(w, "  %s %s %s\n", out.pass.Render("ok"), res.Draft, out.dim.Render(o.Path+" "+o.Commit))
		case model.Failure:
			status := ""
			if o.Status != 0 {
				status = fmt.Sprintf(" (%d)", o.Status)
			}
			fmt.Fprintf(w, "  %s %s %s\n", out.fail.Render("failed"+status), res.Draft, out.dim.Render(o.Message))
		}
	}
}
