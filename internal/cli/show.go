package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avelis/clinscribe/internal/store"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q", args[0])
	}

	rec, err := sessions.Get(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %d not found", id)
		}
		return fmt.Errorf("load session: %w", err)
	}

	fmt.Printf("Session #%d\n", rec.ID)
	fmt.Printf("%s\n\n", rec.Metadata().Info())
	fmt.Printf("Transcript:\n%s\n\n", rec.Transcript)
	fmt.Printf("Summary:\n%s\n", rec.Summary)
	if len(rec.Tags) > 0 {
		fmt.Printf("\nPossible diagnoses:\n  %s\n", strings.Join(rec.Tags, "\n  "))
	}
	return nil
}
