// Package cli implements the command-line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicos/internal/core/ports/driving"
	"github.com/custodia-labs/topicos/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultOwner is the record owner for a single-user installation.
const defaultOwner = "local"

// Service handles injected by the composition root. Commands check for
// nil so the CLI degrades gracefully when a service is unavailable.
var (
	searchService   driving.SearchService
	findService     driving.FindService
	enrichService   driving.EnrichmentService
	pipelineRunner  driving.PipelineRunner
	contextService  driving.ContextService
	statsService    driving.StatsService
	settingsService driving.SettingsService
)

var (
	verbose bool
	owner   string
)

var rootCmd = &cobra.Command{
	Use:   "topicos",
	Short: "AI-assisted topic organisation for your work content",
	Long: `TopicOS organises scattered work content (mail, calendar, files, chat,
notes, code) around the topics you are actually working on. It searches
across sources, ranks candidates by AI-judged relevance, and keeps
per-topic summaries and contacts up to date.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Services bundles the driving ports the CLI depends on.
type Services struct {
	Search   driving.SearchService
	Find     driving.FindService
	Enrich   driving.EnrichmentService
	Pipeline driving.PipelineRunner
	Context  driving.ContextService
	Stats    driving.StatsService
	Settings driving.SettingsService
}

// SetServices injects service implementations. Must be called before
// Execute.
func SetServices(s Services) {
	searchService = s.Search
	findService = s.Find
	enrichService = s.Enrich
	pipelineRunner = s.Pipeline
	contextService = s.Context
	statsService = s.Stats
	settingsService = s.Settings
}

// Execute runs the root command.
func Execute() error {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", defaultOwner, "record owner")
}
