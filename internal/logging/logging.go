package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the root logger for the process and installs it as the slog
// default. Components derive their own loggers from the returned one with
// With("component", ...). The level comes from GYMLEDGER_LOG_LEVEL; anything
// unrecognized (including empty) means info.
func Setup(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
