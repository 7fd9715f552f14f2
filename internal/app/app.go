// Package app assembles components from an AppConfig. Every binary shares it.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playground/internal/assistant"
	"playground/internal/chunker"
	"playground/internal/config"
	"playground/internal/corpus"
	"playground/internal/domain"
	"playground/internal/embedding"
	"playground/internal/logger"
	"playground/internal/service"
	"playground/internal/store/memory"
	redisstore "playground/internal/store/redis"
	"playground/internal/store/sqlite"
	"playground/internal/summarizer"
	"playground/internal/vectorstore"
	memvec "playground/internal/vectorstore/memory"
	"playground/internal/vectorstore/qdrant"
)

// NewLogger builds the configured logger. console tees output to stderr.
func NewLogger(cfg *config.AppConfig, console bool) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		Console:    console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

// NewRepository opens the configured assistant store.
func NewRepository(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (domain.Repository, error) {
	switch cfg.Store.Type {
	case "memory", "":
		snapshot := ""
		if cfg.Store.Memory != nil {
			snapshot = cfg.Store.Memory.SnapshotPath
		}
		return memory.NewRepository(snapshot, log)
	case "sqlite":
		if cfg.Store.SQLite == nil {
			return nil, fmt.Errorf("sqlite store config missing")
		}
		return sqlite.Open(cfg.Store.SQLite.Path, log)
	case "redis":
		if cfg.Store.Redis == nil {
			return nil, fmt.Errorf("redis store config missing")
		}
		return redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		}, log)
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store.Type)
	}
}

// NewEngine wires the dialogue engine to repo.
func NewEngine(cfg *config.AppConfig, repo domain.Repository, log *zap.Logger) *assistant.Engine {
	return assistant.New(repo, log,
		assistant.WithNights(cfg.Assistant.Nights),
		assistant.WithDefaultPlace(cfg.Assistant.DefaultPlace),
		assistant.WithDefaultGuests(cfg.Assistant.DefaultGuests),
		assistant.WithPaymentBaseURL(cfg.Assistant.PaymentBaseURL),
	)
}

// NewRetrievalService loads the corpus and assembles the retrieval pipeline.
func NewRetrievalService(cfg *config.AppConfig, log *zap.Logger) (*service.RetrievalService, error) {
	docs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memvec.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "rules", "":
		sum = summarizer.NewRuleSummarizer(cfg.Summarizer.MaxRecommendations)
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	return service.NewRetrievalService(
		docs,
		chunker.NewWordChunker(cfg.Retrieval.MinWords, cfg.Retrieval.MaxWords),
		embedding.NewHashEmbedder(),
		st,
		sum,
		log,
		service.Options{TopK: cfg.Retrieval.TopK, NegativeWeight: cfg.Retrieval.NegativeWeight},
	), nil
}
