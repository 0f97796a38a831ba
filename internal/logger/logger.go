package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger returns a JSON logger on stdout at the given level
// ("debug", "info", "warn", "error"; anything else means info).
func InitLogger(level string) *slog.Logger {
	return New(os.Stdout, level)
}

// New builds the same logger on an arbitrary writer.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
