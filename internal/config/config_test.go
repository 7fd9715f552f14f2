package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PLAYGROUND_STORE_TYPE", "PLAYGROUND_SQLITE_PATH", "PLAYGROUND_REDIS_ADDR",
		"PLAYGROUND_REDIS_PASSWORD", "PLAYGROUND_REDIS_DB", "PLAYGROUND_CORPUS_PATH",
		"PLAYGROUND_HTTP_ADDR", "PLAYGROUND_LOG_PATH", "PLAYGROUND_LOG_LEVEL", "QDRANT_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Assistant.Nights)
	assert.Equal(t, "Place 2", cfg.Assistant.DefaultPlace)
	assert.Equal(t, 2, cfg.Assistant.DefaultGuests)
	assert.Equal(t, "https://demo.local/pay/", cfg.Assistant.PaymentBaseURL)
	assert.Equal(t, 80, cfg.Retrieval.MinWords)
	assert.Equal(t, 120, cfg.Retrieval.MaxWords)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.75, cfg.Retrieval.NegativeWeight, 1e-9)
	assert.Equal(t, 4, cfg.Summarizer.MaxRecommendations)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileAndDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assistant:
  nights: 3
store:
  type: sqlite
vector_store:
  type: qdrant
  qdrant:
    url: http://qdrant:6333
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Assistant.Nights)
	assert.Equal(t, "Place 2", cfg.Assistant.DefaultPlace)
	require.NotNil(t, cfg.Store.SQLite)
	assert.Equal(t, "playground.db", cfg.Store.SQLite.Path)
	assert.Equal(t, "http://qdrant:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "movies", cfg.VectorStore.Qdrant.Collection)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLAYGROUND_STORE_TYPE", "redis")
	t.Setenv("PLAYGROUND_REDIS_ADDR", "cache:6380")
	t.Setenv("PLAYGROUND_REDIS_DB", "4")
	t.Setenv("PLAYGROUND_HTTP_ADDR", ":9090")
	t.Setenv("PLAYGROUND_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Type)
	require.NotNil(t, cfg.Store.Redis)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 4, cfg.Store.Redis.DB)
	assert.Equal(t, "playground:", cfg.Store.Redis.Prefix)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadRedisDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLAYGROUND_REDIS_DB", "zero")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assistant: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Corpus.Path = "movies.json"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
