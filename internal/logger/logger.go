package logger

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/fifteen-days/internal/config"
)

// New builds a logger that writes to w. Production environments log JSON,
// everything else logs text. A nil w discards all output.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup builds the stdout logger used by the API and installs it as the
// slog default.
func Setup(cfg *config.Config) *slog.Logger {
	logger := New(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// SetupConsole builds the logger for the terminal UI, which owns stdout.
// At debug level it appends to path; at any other level it discards.
// The returned close func is never nil.
func SetupConsole(cfg *config.Config, path string) (*slog.Logger, func() error, error) {
	if cfg.LogLevel > slog.LevelDebug {
		return New(cfg, nil), func() error { return nil }, nil
	}
	f, err := tea.LogToFile(path, "console")
	if err != nil {
		return nil, nil, err
	}
	return New(cfg, f), f.Close, nil
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithGame adds the game ID to logger context
func WithGame(logger *slog.Logger, id uuid.UUID) *slog.Logger {
	return logger.With("game_id", id.String())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
