package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

var (
	organizeArea string
	organizeJSON bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Run the batch pipeline over active topics",
	Long: `Processes every active topic through three stages: content
enrichment, contact extraction, and an AI deep dive that refreshes the
topic summary. A failing topic is reported and the run continues with
the next one.

With --json, progress is streamed as one JSON event per line, suitable
for driving other tooling.`,
	Args: cobra.NoArgs,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().StringVar(&organizeArea, "area", "", "restrict the run to one area")
	organizeCmd.Flags().BoolVar(&organizeJSON, "json", false, "stream progress as JSON events")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, _ []string) error {
	if pipelineRunner == nil {
		return errors.New("pipeline runner not configured")
	}

	events, err := pipelineRunner.Run(cmd.Context(), owner, organizeArea)
	if err != nil {
		return fmt.Errorf("pipeline failed to start: %w", err)
	}

	if organizeJSON {
		return streamEvents(cmd, events)
	}

	return printEvents(cmd, events)
}

// streamEvents writes one JSON event per line as they arrive.
func streamEvents(cmd *cobra.Command, events <-chan domain.ProgressEvent) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for event := range events {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	return nil
}

func printEvents(cmd *cobra.Command, events <-chan domain.ProgressEvent) error {
	var failures int
	for event := range events {
		switch event.Kind {
		case domain.ProgressStart:
			cmd.Printf("Processing %d topic(s)\n\n", event.TotalTopics)
		case domain.ProgressStage:
			cmd.Printf("  [%d] %s: %s\n", event.Index, event.TopicTitle, stageLabel(event.Stage))
		case domain.ProgressTopicDone:
			r := event.Result
			cmd.Printf("  [%d] %s: done (%d enriched, %d contacts, %d tokens)\n\n",
				event.Index, event.TopicTitle, r.Enriched, r.ContactsLinked, r.TokensUsed)
		case domain.ProgressTopicError:
			failures++
			cmd.Printf("  [%d] %s: FAILED: %s\n\n", event.Index, event.TopicTitle, event.Message)
		case domain.ProgressComplete:
			cmd.Println("Run complete.")
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d topic(s) failed", failures)
	}
	return nil
}

func stageLabel(stage domain.PipelineStage) string {
	switch stage {
	case domain.StageEnrich:
		return "enriching records"
	case domain.StageContacts:
		return "extracting contacts"
	case domain.StageDeepDive:
		return "deep dive"
	default:
		return string(stage)
	}
}
