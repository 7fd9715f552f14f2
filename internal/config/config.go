package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AssistantConfig tunes the stay-booking dialogue.
type AssistantConfig struct {
	Nights         int    `yaml:"nights"`
	DefaultPlace   string `yaml:"default_place"`
	DefaultGuests  int    `yaml:"default_guests"`
	PaymentBaseURL string `yaml:"payment_base_url"`
	// TypingDelayMs is how long the chat UI shows "typing…" before a reply.
	TypingDelayMs int `yaml:"typing_delay_ms"`
}

// RetrievalConfig configures chunking and query scoring.
type RetrievalConfig struct {
	MinWords       int     `yaml:"min_words"`
	MaxWords       int     `yaml:"max_words"`
	TopK           int     `yaml:"top_k"`
	NegativeWeight float64 `yaml:"negative_weight"`
}

// CorpusConfig points at the movie dataset. An empty path uses the built-in sample.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type               string `yaml:"type"`
	MaxRecommendations int    `yaml:"max_recommendations"`
}

// StoreConfig selects where sessions, bookings and payments live.
type StoreConfig struct {
	Type   string        `yaml:"type"`
	Memory *MemoryConfig `yaml:"memory,omitempty"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
	Redis  *RedisConfig  `yaml:"redis,omitempty"`
}

type MemoryConfig struct {
	// SnapshotPath, when set, persists the store across restarts.
	SnapshotPath string `yaml:"snapshot_path"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// CORSOrigins lists browser origins allowed to call the API; empty allows all.
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Assistant   AssistantConfig   `yaml:"assistant"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnv(cfg, os.LookupEnv); err != nil {
				return nil, err
			}
			applyConfigDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/playground/config.yaml.
// If neither exists, it writes defaults to ~/.config/playground/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, "", err
	}
	applyConfigDefaults(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "playground", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		VectorStore: VectorStoreConfig{Type: "memory"},
		Summarizer:  SummarizerConfig{Type: "rules"},
		Store:       StoreConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	a := &cfg.Assistant
	if a.Nights == 0 {
		a.Nights = 2
	}
	if a.DefaultPlace == "" {
		a.DefaultPlace = "Place 2"
	}
	if a.DefaultGuests == 0 {
		a.DefaultGuests = 2
	}
	if a.PaymentBaseURL == "" {
		a.PaymentBaseURL = "https://demo.local/pay/"
	}
	if a.TypingDelayMs == 0 {
		a.TypingDelayMs = 600
	}

	r := &cfg.Retrieval
	if r.MinWords == 0 {
		r.MinWords = 80
	}
	if r.MaxWords == 0 {
		r.MaxWords = 120
	}
	if r.TopK == 0 {
		r.TopK = 6
	}
	if r.NegativeWeight == 0 {
		r.NegativeWeight = 0.75
	}

	if cfg.Summarizer.MaxRecommendations == 0 {
		cfg.Summarizer.MaxRecommendations = 4
	}

	if q := cfg.VectorStore.Qdrant; cfg.VectorStore.Type == "qdrant" && q != nil {
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.Collection == "" {
			q.Collection = "movies"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}

	switch cfg.Store.Type {
	case "sqlite":
		if cfg.Store.SQLite == nil {
			cfg.Store.SQLite = &SQLiteConfig{}
		}
		if cfg.Store.SQLite.Path == "" {
			cfg.Store.SQLite.Path = "playground.db"
		}
	case "redis":
		if cfg.Store.Redis == nil {
			cfg.Store.Redis = &RedisConfig{}
		}
		if cfg.Store.Redis.Addr == "" {
			cfg.Store.Redis.Addr = "localhost:6379"
		}
		if cfg.Store.Redis.Prefix == "" {
			cfg.Store.Redis.Prefix = "playground:"
		}
	}

	l := &cfg.Log
	if l.Level == "" {
		l.Level = "info"
	}
	if l.MaxSizeMB == 0 {
		l.MaxSizeMB = 10
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 5
	}
	if l.MaxAgeDays == 0 {
		l.MaxAgeDays = 30
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// applyEnv overrides file values from the environment (and .env, once loaded by main).
func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup("PLAYGROUND_STORE_TYPE"); ok && v != "" {
		cfg.Store.Type = v
	}
	if v, ok := lookup("PLAYGROUND_SQLITE_PATH"); ok && v != "" {
		if cfg.Store.SQLite == nil {
			cfg.Store.SQLite = &SQLiteConfig{}
		}
		cfg.Store.SQLite.Path = v
	}
	redisEnv := func() *RedisConfig {
		if cfg.Store.Redis == nil {
			cfg.Store.Redis = &RedisConfig{}
		}
		return cfg.Store.Redis
	}
	if v, ok := lookup("PLAYGROUND_REDIS_ADDR"); ok && v != "" {
		redisEnv().Addr = v
	}
	if v, ok := lookup("PLAYGROUND_REDIS_PASSWORD"); ok && v != "" {
		redisEnv().Password = v
	}
	if v, ok := lookup("PLAYGROUND_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLAYGROUND_REDIS_DB: %w", err)
		}
		redisEnv().DB = db
	}
	if v, ok := lookup("PLAYGROUND_CORPUS_PATH"); ok && v != "" {
		cfg.Corpus.Path = v
	}
	if v, ok := lookup("PLAYGROUND_HTTP_ADDR"); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookup("PLAYGROUND_LOG_PATH"); ok && v != "" {
		cfg.Log.Path = v
	}
	if v, ok := lookup("PLAYGROUND_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup("QDRANT_API_KEY"); ok && v != "" && cfg.VectorStore.Qdrant != nil {
		cfg.VectorStore.Qdrant.APIKey = v
	}
	return nil
}
