package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/config"
	"github.com/kmckee/teamdash/internal/db"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/notify"
	"github.com/kmckee/teamdash/internal/store"
	"github.com/kmckee/teamdash/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	if *showVersion {
		fmt.Printf("teamdash %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "teamdash: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		if dbPath, err = db.DefaultPath(); err != nil {
			return err
		}
	}
	database, err := db.New(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	database.SetLogger(logger)

	bus := notify.NewBus()
	database.SetPublisher(bus)

	st := store.New(initialState(cfg))
	acts := actions.New(database, st, logger)

	listener := notify.NewListener(bus, database, st, logger)
	defer listener.Close()

	acts.LoadPreferences()
	if err := acts.LoadAll(); err != nil {
		logger.Warn("initial load failed", slog.Any("err", err))
	}

	p := tea.NewProgram(ui.New(st, acts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// initialState seeds the store from config defaults. The settings
// table overrides these right after, via LoadPreferences.
func initialState(cfg config.Config) store.State {
	state := store.NewState()
	if cfg.Theme != "" {
		state.Theme = cfg.Theme
	}
	if cfg.Language != "" {
		state.Language = cfg.Language
	}
	if cfg.Role != "" {
		state.Role = models.Role(cfg.Role)
	}
	return state
}

// newLogger opens the log file. Logs cannot go to stdout while the
// terminal UI owns it, so without a usable file they are discarded.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeLog := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
		}
		w = f
		closeLog = func() { f.Close() }
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}
