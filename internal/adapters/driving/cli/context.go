package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context [topic-id]",
	Short: "Print the composed context for a topic",
	Long: `Assembles the full prompt-ready context document for a topic: the
user's ground truth first, then prior analysis, notes, active tasks,
linked record content, and parent topic context.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if contextService == nil {
		return errors.New("context service not configured")
	}

	doc, err := contextService.Compose(cmd.Context(), owner, args[0])
	if err != nil {
		return fmt.Errorf("compose context failed: %w", err)
	}

	cmd.Println(doc)
	return nil
}
