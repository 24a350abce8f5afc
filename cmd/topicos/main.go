// Command topicos is the TopicOS command-line interface.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/topicos/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/topicos/internal/adapters/driven/config/file"
	"github.com/custodia-labs/topicos/internal/adapters/driven/schema"
	"github.com/custodia-labs/topicos/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/topicos/internal/adapters/driving/cli"
	"github.com/custodia-labs/topicos/internal/connectors/github"
	"github.com/custodia-labs/topicos/internal/connectors/google"
	googlecalendar "github.com/custodia-labs/topicos/internal/connectors/google/calendar"
	googledrive "github.com/custodia-labs/topicos/internal/connectors/google/drive"
	"github.com/custodia-labs/topicos/internal/connectors/google/gmail"
	"github.com/custodia-labs/topicos/internal/connectors/localnotes"
	"github.com/custodia-labs/topicos/internal/connectors/notion"
	"github.com/custodia-labs/topicos/internal/connectors/slack"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/services"
	"github.com/custodia-labs/topicos/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Dir(configStore.Path()))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	connectors := buildConnectors(ctx)
	defer closeConnectors(connectors)

	enricher := services.NewEnricher(connectors, store.RecordStore())
	composer := services.NewComposer(store.TopicStore(), store.RecordStore())
	stats := services.NewStatsEngine(store.RecordStore())

	app := cli.Services{
		Enrich:   enricher,
		Context:  composer,
		Stats:    stats,
		Settings: settingsService,
	}

	// AI-backed services are wired only when a completion backend is
	// reachable; the rest of the CLI works without one.
	completionService, err := ai.SelectCompletionService(settings)
	if err != nil {
		logger.Warn("completion backend unavailable, AI features disabled: %v", err)
		app.Search = services.NewSearcher(connectors, store.RecordStore(), store.TopicStore(), nil)
	} else {
		defer completionService.Close() //nolint:errcheck

		completer := services.NewSchemaCompleter(completionService)
		compiler := schema.NewCompiler()

		ranker, err := services.NewRanker(completer, compiler)
		if err != nil {
			return fmt.Errorf("create ranker: %w", err)
		}

		searcher := services.NewSearcher(connectors, store.RecordStore(), store.TopicStore(), ranker)
		app.Search = searcher
		app.Find = searcher

		pipeline, err := services.NewPipeline(
			store.TopicStore(),
			store.RecordStore(),
			store.ContactStore(),
			enricher,
			composer,
			completer,
			compiler,
			settings.Pipeline,
		)
		if err != nil {
			return fmt.Errorf("create pipeline: %w", err)
		}
		app.Pipeline = pipeline
	}

	cli.SetServices(app)
	return cli.Execute()
}

// buildConnectors assembles the connector set from the environment.
// Every connector is optional; a missing credential just leaves its
// source unconnected.
func buildConnectors(ctx context.Context) map[domain.SourceType]driven.SourceConnector {
	connectors := make(map[domain.SourceType]driven.SourceConnector)

	if token := os.Getenv("GOOGLE_ACCESS_TOKEN"); token != "" {
		account := os.Getenv("GOOGLE_ACCOUNT")
		if account == "" {
			// Resolve the account email from the token so record
			// provenance stays meaningful.
			if info, err := google.GetUserInfo(ctx, token); err != nil {
				logger.Warn("resolve google account: %v", err)
			} else {
				account = info.Email
			}
		}
		tokens := google.StaticToken(token)

		if conn, err := gmail.NewConnector(ctx, account, tokens); err != nil {
			logger.Warn("gmail connector unavailable: %v", err)
		} else {
			connectors[domain.SourceMail] = conn
		}

		if conn, err := googlecalendar.NewConnector(ctx, account, tokens); err != nil {
			logger.Warn("calendar connector unavailable: %v", err)
		} else {
			connectors[domain.SourceCalendar] = conn
		}

		if conn, err := googledrive.NewConnector(ctx, account, tokens); err != nil {
			logger.Warn("drive connector unavailable: %v", err)
		} else {
			connectors[domain.SourceFile] = conn
		}
	}

	if token := os.Getenv("SLACK_TOKEN"); token != "" {
		conn, err := slack.NewConnector(slack.Config{
			Token:     token,
			Workspace: os.Getenv("SLACK_WORKSPACE"),
		})
		if err != nil {
			logger.Warn("slack connector unavailable: %v", err)
		} else {
			connectors[domain.SourceChat] = conn
		}
	}

	// Notes come from Notion when a token is configured, otherwise
	// from a local notes directory.
	switch {
	case os.Getenv("NOTION_TOKEN") != "":
		conn, err := notion.NewConnector(os.Getenv("NOTION_WORKSPACE"), os.Getenv("NOTION_TOKEN"))
		if err != nil {
			logger.Warn("notion connector unavailable: %v", err)
		} else {
			connectors[domain.SourceNotes] = conn
		}
	case os.Getenv("TOPICOS_NOTES_DIR") != "":
		conn, err := localnotes.NewConnector(os.Getenv("TOPICOS_NOTES_DIR"))
		if err != nil {
			logger.Warn("local notes connector unavailable: %v", err)
		} else {
			connectors[domain.SourceNotes] = conn
		}
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		conn, err := github.NewConnector(ctx, os.Getenv("GITHUB_LOGIN"), token)
		if err != nil {
			logger.Warn("github connector unavailable: %v", err)
		} else {
			connectors[domain.SourceCode] = conn
		}
	}

	if len(connectors) > 0 {
		logger.Debug("connected %d source(s)", len(connectors))
	}

	return connectors
}

func closeConnectors(connectors map[domain.SourceType]driven.SourceConnector) {
	for source, conn := range connectors {
		if err := conn.Close(); err != nil {
			logger.Warn("close %s connector: %v", source, err)
		}
	}
}
