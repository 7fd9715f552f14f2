package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"playground/internal/app"
	"playground/internal/config"
	"playground/internal/corpus"
	"playground/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, corpusPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/playground/config.yaml if not provided)")
	flag.StringVar(&corpusPath, "corpus", "", "Movie dataset (YAML or JSON); overrides corpus.path")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if corpusPath != "" {
		cfg.Corpus.Path = corpusPath
	}

	logger, err := app.NewLogger(cfg, false)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	svc, err := app.NewRetrievalService(cfg, logger)
	if err != nil {
		log.Fatalf("retrieval init failed: %v", err)
	}
	chunks, err := svc.Ingest(context.Background())
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	docs := svc.Documents()
	summary := fmt.Sprintf("%d movies, %d chunks indexed", len(docs), chunks)
	if top := corpus.GenreDistribution(docs, 3); len(top) > 0 {
		summary += " | top genres:"
		for _, g := range top {
			summary += fmt.Sprintf(" %s (%d)", g.Genre, g.Count)
		}
	}

	m := tui.NewRAG(svc, summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
