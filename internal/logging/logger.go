package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New initializes a logger that writes JSON records to stderr, and optionally
// to a log file as well. Stderr is used so that curated results printed to
// stdout stay machine-consumable.
func New(level, logFilePath string) (*slog.Logger, *os.File) {
	var logWriter io.Writer = os.Stderr
	var logFile *os.File

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if logFilePath != "" {
		var err error
		logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			slog.Error("Failed to open log file, continuing with stderr only", "error", err, "path", logFilePath)
		} else {
			logWriter = io.MultiWriter(os.Stderr, logFile)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logWriter, handlerOpts))
	slog.SetDefault(logger)

	return logger, logFile
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
