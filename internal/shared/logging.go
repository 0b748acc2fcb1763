package shared

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// InitLogger installs the process-wide logger. Logs go to stderr so that
// stdout stays reserved for reports.
func InitLogger(format, level string) *slog.Logger {
	logger := NewLogger(os.Stderr, format, level)
	slog.SetDefault(logger)
	return logger
}

func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	var h slog.Handler
	if useJSON(w, format) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// useJSON resolves the format; "auto" (or empty) picks text for terminals and
// JSON for everything else.
func useJSON(w io.Writer, format string) bool {
	switch strings.ToLower(format) {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
