// Package logging wraps log/slog into deskd's logger configuration:
// level, text/json format, and stdout-or-file output, the same knobs
// the teacher's logger package exposes.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json"
	Output string // "stdout", "file"
	File   string // path to log file, required if Output == "file"
}

// New builds a *slog.Logger from cfg. An unrecognized Level falls back
// to info; an unrecognized Format falls back to text; Output "file"
// with an empty or unopenable File is an error.
func New(cfg Config) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	writer := os.Stdout
	if cfg.Output == "file" {
		if cfg.File == "" {
			return nil, fmt.Errorf("logging: output is \"file\" but no file path was configured")
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		writer = f
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), nil
}
