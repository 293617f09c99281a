package job

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
)

// openJobLog opens the per-job diagnostic stream at Logs/<jobkey>.log,
// truncated at job start, and returns a logger that writes both there and
// to the process stream.
func openJobLog(cfg *config.Config, jobKey string) (*os.File, *slog.Logger, error) {
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(cfg.Paths.LogDir, jobKey+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open job log: %w", err)
	}

	logger := NewLogger(cfg.Logging, io.MultiWriter(os.Stderr, f)).With("job", jobKey)
	return f, logger, nil
}

// NewLogger builds an slog logger per the logging configuration.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
