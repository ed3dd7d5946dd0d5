package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/config"
	"github.com/sadopc/chronos/internal/state"
	"github.com/sadopc/chronos/internal/store"
	"github.com/sadopc/chronos/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// The TUI owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(config.LogPath(cfg.DataDir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	s, err := store.New(config.DBDir(cfg.DataDir))
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := state.New(s)
	if err != nil {
		return err
	}
	if resumed, err := st.Resume(); err != nil {
		return err
	} else if resumed {
		slog.Info("resumed session", "name", st.User().Name)
	}

	var assistant ai.Assistant = ai.Offline{}
	if cfg.OpenAIKey != "" {
		assistant = ai.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		slog.Warn("no API key configured, AI features degraded to offline fallbacks")
	}

	app := tui.NewApp(st, assistant, cfg.DataDir)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
