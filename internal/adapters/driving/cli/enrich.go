package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [topic-id]",
	Short: "Fetch full content for a topic's records",
	Long: `Fetches the full content of every fetchable record linked to the
topic. Records that already have content are skipped; individual fetch
failures are reported but do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if enrichService == nil {
		return errors.New("enrichment service not configured")
	}

	result, err := enrichService.EnrichMany(cmd.Context(), owner, args[0])
	if err != nil {
		return fmt.Errorf("enrich failed: %w", err)
	}

	for _, outcome := range result.Outcomes {
		switch {
		case outcome.Cached:
			cmd.Printf("  cached  %s\n", outcome.RecordID)
		case outcome.Succeeded:
			cmd.Printf("  fetched %s\n", outcome.RecordID)
		default:
			cmd.Printf("  failed  %s: %v\n", outcome.RecordID, outcome.Err)
		}
	}

	cmd.Printf("\nEnriched %d record(s), %d failed.\n", result.Enriched, result.Failed)
	return nil
}
