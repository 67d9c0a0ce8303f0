package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored sessions, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "max results (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	summaries, err := sessions.ListSummary(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No sessions recorded yet")
		return nil
	}
	if historyLimit > 0 && len(summaries) > historyLimit {
		summaries = summaries[:historyLimit]
	}

	for _, s := range summaries {
		fmt.Printf("#%-5d %-12s %s\n", s.ID, s.Date, s.Patient)
	}
	return nil
}
