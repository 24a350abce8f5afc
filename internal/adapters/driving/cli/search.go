package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

var (
	searchSources []string
	searchTopic   string
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across connected sources",
	Long: `Searches all connected sources (mail, calendar, files, chat, notes,
code) and prints the merged, deduplicated results. A failing source is
skipped, not fatal.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict to source types (mail, calendar, file, chat, notes, code)")
	searchCmd.Flags().StringVar(&searchTopic, "topic", "", "exclude records already linked to this topic")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum results per source")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := domain.SearchQuery{
		Query:      args[0],
		TopicID:    searchTopic,
		MaxResults: searchLimit,
	}
	for _, s := range searchSources {
		source := domain.SourceType(s)
		if !source.IsValid() {
			return fmt.Errorf("unknown source type %q", s)
		}
		query.Sources = append(query.Sources, source)
	}

	records, err := searchService.Search(cmd.Context(), owner, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, records)
	}

	printRecords(cmd, records)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printRecords(cmd *cobra.Command, records []domain.Record) {
	if len(records) == 0 {
		cmd.Println("No results found.")
		return
	}

	for i, rec := range records {
		cmd.Printf("  [%d] (%s) %s\n", i+1, rec.Source, recordTitle(rec))
		if rec.Snippet != "" {
			cmd.Printf("      %s\n", rec.Snippet)
		}
		if rec.URL != "" {
			cmd.Printf("      %s\n", rec.URL)
		}
		cmd.Println()
	}
}

func recordTitle(rec domain.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.ExternalID
}
