package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var findJSON bool

var findCmd = &cobra.Command{
	Use:   "find [topic-id] [query]",
	Short: "Find content relevant to a topic",
	Long: `Searches all sources for the query, excludes records already linked
to the topic, and ranks the candidates by AI-judged relevance against
the topic's context. When the completion backend is unavailable the
candidates are printed unranked.`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	if findService == nil {
		return errors.New("find service not configured")
	}

	ranked, err := findService.Find(cmd.Context(), owner, args[0], args[1])
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}

	if findJSON {
		return printJSON(cmd, ranked)
	}

	if len(ranked) == 0 {
		cmd.Println("No relevant records found.")
		return nil
	}

	for i, rr := range ranked {
		score := " -- "
		if rr.Score != nil {
			score = fmt.Sprintf("%.2f", *rr.Score)
		}
		cmd.Printf("  [%d] %s (%s) %s\n", i+1, score, rr.Record.Source, recordTitle(rr.Record))
		if rr.Reason != "" {
			cmd.Printf("      %s\n", rr.Reason)
		}
		cmd.Println()
	}

	return nil
}
