package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreSetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("completion.provider", "anthropic"))
	require.NoError(t, store.Set("pipeline.inter_topic_delay_ms", 500))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "anthropic", store.GetString("completion.provider"))
	assert.Equal(t, 500, store.GetInt("pipeline.inter_topic_delay_ms"))
	assert.True(t, store.GetBool("verbose"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStorePersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("completion.model", "claude-sonnet-4-20250514"))
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", reloaded.GetString("completion.model"))
}

func TestConfigStoreFlattensNestedTOML(t *testing.T) {
	dir := t.TempDir()
	content := "[completion]\nprovider = \"ollama\"\n\n[pipeline]\nmax_contact_records = 10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", store.GetString("completion.provider"))
	assert.Equal(t, 10, store.GetInt("pipeline.max_contact_records"))
}

func TestConfigStoreWrongTypeReturnsZero(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("key", "not a number"))
	assert.Zero(t, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStoreRestrictedPermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("completion.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
