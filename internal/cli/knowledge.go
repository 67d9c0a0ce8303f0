package cli

import (
	"fmt"

	"github.com/avelis/clinscribe/internal/knowledge"
	"github.com/spf13/cobra"
)

var knowledgeLimit int

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the reference Q&A knowledge base",
	Long: `Manage the reference Q&A pairs attached to session reports.
Requires the surrealdb store backend.

Examples:
  clinscribe knowledge add "What are common migraine triggers?" "Stress, sleep disruption, ..."
  clinscribe knowledge search "persistent headache"`,
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add <question> <answer>",
	Short: "Add a Q&A pair to the knowledge base",
	Args:  cobra.ExactArgs(2),
	RunE:  runKnowledgeAdd,
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runKnowledgeSearch,
}

func init() {
	knowledgeSearchCmd.Flags().IntVarP(&knowledgeLimit, "limit", "n", knowledge.DefaultLimit, "max results")
	knowledgeCmd.AddCommand(knowledgeAddCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd)
}

// vectorProvider builds the embedding-backed provider, failing when the
// active store backend has no knowledge table.
func vectorProvider() (*knowledge.VectorProvider, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("knowledge base requires the surrealdb store backend")
	}
	embedder, err := knowledge.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return knowledge.NewVectorProvider(dbClient, embedder, collector, logger), nil
}

func runKnowledgeAdd(cmd *cobra.Command, args []string) error {
	provider, err := vectorProvider()
	if err != nil {
		return err
	}
	if err := provider.Add(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("add knowledge: %w", err)
	}
	fmt.Println("Knowledge entry added")
	return nil
}

func runKnowledgeSearch(cmd *cobra.Command, args []string) error {
	provider, err := vectorProvider()
	if err != nil {
		return err
	}

	pairs, err := provider.Lookup(cmd.Context(), args[0], knowledgeLimit)
	if err != nil {
		return fmt.Errorf("search knowledge: %w", err)
	}
	if len(pairs) == 0 {
		fmt.Println("No related knowledge found")
		return nil
	}

	for _, qa := range pairs {
		fmt.Printf("Q: %s\nA: %s\n\n", qa.Question, qa.Answer)
	}
	return nil
}
