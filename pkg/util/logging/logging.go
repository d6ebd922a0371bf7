package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"conflict-resolver/pkg/config"
)

const ServiceName = "conflict-resolver"

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds a logger writing to w. LOG_LEVEL overrides cfg.Level.
func New(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = strings.ToLower(cfg.Level)
	}

	logLevel, ok := logLevelMapping[level]
	if !ok {
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if cfg.Format == config.FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", ServiceName)
}

// Init installs a stderr logger as the slog default and returns it. Stdout is
// left to command output.
func Init(cfg config.LoggingConfig) *slog.Logger {
	logger := New(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}
