package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"playground/internal/app"
	"playground/internal/assistant"
	"playground/internal/config"
	"playground/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, sessionID, phone, name string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/playground/config.yaml if not provided)")
	flag.StringVar(&sessionID, "session", "", "Resume an existing session id (default: new session)")
	flag.StringVar(&phone, "phone", "+910000000000", "Phone number identifying the user")
	flag.StringVar(&name, "name", "Guest", "Display name")
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

	logger, err := app.NewLogger(cfg, false)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	repo, err := app.NewRepository(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer repo.Close()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	engine := app.NewEngine(cfg, repo, logger)
	m := tui.NewChat(engine, sessionID, assistant.User{Phone: phone, Name: name},
		time.Duration(cfg.Assistant.TypingDelayMs)*time.Millisecond)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
