package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the global logger instance. It starts as slog's default so packages
// can log before Setup runs (tests, CLI commands).
var Log = slog.Default()

// Setup initializes the global logger based on the environment.
// Production gets JSON lines, everything else human readable text.
func Setup(env string) {
	SetupWriter(env, os.Stdout)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: levelFor(env),
	}

	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Log = slog.New(handler).With(slog.String("service", "proyecthub-api"))
	slog.SetDefault(Log)
}

func levelFor(env string) slog.Level {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		switch strings.ToLower(v) {
		case "debug":
			return slog.LevelDebug
		case "warn":
			return slog.LevelWarn
		case "error":
			return slog.LevelError
		}
	}
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
