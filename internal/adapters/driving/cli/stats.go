package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

var (
	statsName  string
	statsEmail string
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show interaction statistics for a contact",
	Long: `Scans recent records for interactions with a contact and reports
how often they appear, when they last appeared, and which topics they
span. Matching uses the email address when present, otherwise the name.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsName, "name", "", "contact name")
	statsCmd.Flags().StringVar(&statsEmail, "email", "", "contact email")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}
	if statsName == "" && statsEmail == "" {
		return errors.New("either --name or --email is required")
	}

	contact := domain.Contact{Name: statsName, Email: statsEmail}
	stats, err := statsService.ComputeStats(cmd.Context(), owner, contact)
	if err != nil {
		return fmt.Errorf("compute stats failed: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Interactions: %d\n", stats.Count)
	if stats.LastInteractionAt == nil {
		cmd.Println("Last seen:    never")
	} else {
		cmd.Printf("Last seen:    %s\n", stats.LastInteractionAt.Format("2006-01-02 15:04"))
	}
	cmd.Printf("Topics:       %d\n", len(stats.TopicIDs))

	return nil
}
