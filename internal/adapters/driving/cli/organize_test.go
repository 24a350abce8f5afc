package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestOrganizeCmd_PrintsProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"organize"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Processing 1 topic(s)")
	assert.Contains(t, out, "Atlas")
	assert.Contains(t, out, "Run complete.")
}

func TestOrganizeCmd_JSONStreamsOneEventPerLine(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"organize", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		organizeJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var first domain.ProgressEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, domain.ProgressStart, first.Kind)
	assert.Equal(t, 1, first.TotalTopics)

	var last domain.ProgressEvent
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, domain.ProgressComplete, last.Kind)
}

func TestOrganizeCmd_ReportsTopicFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	pipelineRunner = &mockPipelineRunner{
		events: []domain.ProgressEvent{
			{Kind: domain.ProgressStart, TotalTopics: 1},
			{Kind: domain.ProgressTopicError, Index: 1, TopicTitle: "Atlas", Message: "deep dive failed"},
			{Kind: domain.ProgressComplete},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"organize"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 topic(s) failed")
	assert.Contains(t, buf.String(), "deep dive failed")
}

func TestStatsCmd_RequiresIdentity(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name or --email")
}

func TestStatsCmd_PrintsStats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--email", "alice@example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
		statsEmail = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Interactions: 3")
	assert.Contains(t, out, "2025-05-01")
	assert.Contains(t, out, "Topics:       1")
}

func TestContextCmd_PrintsDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"context", "topic-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "GROUND TRUTH")
}

func TestEnrichCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"enrich", "topic-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "fetched rec-1")
	assert.Contains(t, buf.String(), "Enriched 1 record(s), 0 failed.")
}
