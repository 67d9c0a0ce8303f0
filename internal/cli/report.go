package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportOutput string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Render a stored session as a report",
	Long: `Render a stored session as a PDF or DOCX report.

Examples:
  clinscribe report 12
  clinscribe report 12 -o visit.docx --format docx`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output path (default session_<id>.<ext>)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "report format: pdf or docx")
}

func runReport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q", args[0])
	}

	renderer, err := report.RendererFor(reportFormat)
	if err != nil {
		return err
	}

	rec, err := sessions.Get(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %d not found", id)
		}
		return fmt.Errorf("load session: %w", err)
	}

	out, err := renderer.Render(report.BuildFromRecord(rec, nil))
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	path := reportOutput
	if path == "" {
		path = fmt.Sprintf("session_%d.%s", rec.ID, renderer.Ext())
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}
