package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	newDoctor  string
	newPatient string
	newDate    string
	newAudio   string
	newText    string
	newOutput  string
	newFormat  string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Process a new clinical session",
	Long: `Process a new clinical session: transcribe the audio (or use the
manual transcript from --text), summarize it, store the record, and
write the rendered report.

Examples:
  clinscribe new --doctor "Dr. Ma" --patient "Li" --date 2026-08-29 --audio visit.wav
  clinscribe new --patient "Li" --text "Doctor: How are you feeling today? ..."
  clinscribe new --audio visit.m4a --format docx -o reports/visit.docx`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newDoctor, "doctor", "", "treating doctor's name")
	newCmd.Flags().StringVar(&newPatient, "patient", "", "patient's name")
	newCmd.Flags().StringVar(&newDate, "date", "", "session date (e.g. 2026-08-29)")
	newCmd.Flags().StringVar(&newAudio, "audio", "", "path to session audio file")
	newCmd.Flags().StringVar(&newText, "text", "", "manual transcript; skips audio transcription")
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "report output path (default session_<id>.<ext>)")
	newCmd.Flags().StringVar(&newFormat, "format", "pdf", "report format: pdf or docx")
}

func runNew(cmd *cobra.Command, args []string) error {
	orch, renderer, err := newOrchestrator(newFormat)
	if err != nil {
		return err
	}

	res, err := orch.Process(cmd.Context(), pipeline.Request{
		Doctor:    newDoctor,
		Patient:   newPatient,
		Date:      newDate,
		AudioPath: newAudio,
		Text:      newText,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Session %d stored\n", res.Record.ID)
	if len(res.Record.Tags) > 0 {
		fmt.Printf("Possible diagnoses:\n  %s\n", strings.Join(res.Record.Tags, "\n  "))
	}

	if res.RenderErr != nil {
		// The record is already durable; report the render failure
		// without undoing the session.
		return fmt.Errorf("session %d stored but report failed: %w", res.Record.ID, res.RenderErr)
	}

	path := newOutput
	if path == "" {
		path = fmt.Sprintf("session_%d.%s", res.Record.ID, renderer.Ext())
	}
	if err := os.WriteFile(path, res.Report, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}
