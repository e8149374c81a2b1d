package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phsym/console-slog"

	"github.com/samuelreed/tilegrid/internal/config"
	"github.com/samuelreed/tilegrid/internal/tui"
)

const defaultLogName = "tilegrid.log"

// logPath returns where logs go when the config names no file. The
// terminal belongs to the TUI, so logs never go to stderr.
func logPath(cfg *config.Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(os.TempDir(), defaultLogName)
}

// setupLogging sends records to the log file and to the in-app log panel,
// and makes the result the default logger.
func setupLogging(cfg *config.Config, panel *tui.LogPanelModel) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	path := logPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	tui.InitLogging()
	handler := tui.NewTeeHandler(
		console.NewHandler(f, &console.HandlerOptions{Level: level, NoColor: true}),
		tui.NewLogPanelHandler(panel, level),
	)
	log := slog.New(handler)
	slog.SetDefault(log)

	return log, func() { _ = f.Close() }, nil
}
