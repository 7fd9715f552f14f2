package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"playground/internal/assistant"
	"playground/internal/config"
	"playground/internal/store/memory"
	redisstore "playground/internal/store/redis"
	"playground/internal/store/sqlite"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	t.Setenv("PLAYGROUND_STORE_TYPE", "")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewRepository(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	repo, err := NewRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Repository{}, repo)
	require.NoError(t, repo.Close())

	cfg.Store.Type = "sqlite"
	cfg.Store.SQLite = &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db")}
	repo, err = NewRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Repository{}, repo)
	require.NoError(t, repo.Close())

	srv := miniredis.RunT(t)
	cfg.Store.Type = "redis"
	cfg.Store.Redis = &config.RedisConfig{Addr: srv.Addr(), Prefix: "app-test:"}
	repo, err = NewRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &redisstore.Repository{}, repo)
	require.NoError(t, repo.Close())

	cfg.Store.Type = "postgres"
	_, err = NewRepository(ctx, cfg, zap.NewNop())
	assert.EqualError(t, err, "unknown store: postgres")
}

func TestNewEngine_EndToEndOnSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store.Type = "sqlite"
	cfg.Store.SQLite = &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db")}

	repo, err := NewRepository(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()
	e := NewEngine(cfg, repo, zap.NewNop())

	u := assistant.User{Phone: "+911234567890", Name: "Asha"}
	resp := e.ProcessMessage(ctx, assistant.ChatRequest{SessionID: "s1", User: u, Message: "book a private room"})
	require.NotNil(t, resp.UI)
	require.Len(t, resp.UI.OptionCards, 1)

	resp = e.ProcessMessage(ctx, assistant.ChatRequest{SessionID: "s1", User: u, Message: "SELECT_OPTION_A"})
	require.NotNil(t, resp.UI.PaymentLink)
	ref := resp.UI.PaymentLink.URL[len(cfg.Assistant.PaymentBaseURL):]

	resp = e.HandleEvent(ctx, "s1", u, assistant.PaymentResult{Ref: ref, Outcome: assistant.OutcomeSuccess})
	assert.Contains(t, resp.ReplyText, "Booking confirmed")
	assert.Equal(t, "IDLE", resp.Debug.State)
}

func TestNewRetrievalService(t *testing.T) {
	cfg := testConfig(t)
	svc, err := NewRetrievalService(cfg, zap.NewNop())
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), "clever heist with witty banter", "")
	require.NoError(t, err)
	assert.Equal(t, len(svc.Documents()), res.DatasetSize)
	assert.NotEmpty(t, res.Recommendations)

	cfg.VectorStore.Type = "pinecone"
	_, err = NewRetrievalService(cfg, zap.NewNop())
	assert.Error(t, err)
}
