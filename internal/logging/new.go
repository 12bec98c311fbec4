package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatZerolog = "zerolog"
)

// Options selects the backend, level and destination of a Logger.
type Options struct {
	Format  string
	Level   string
	Service string
	Writer  io.Writer
}

// New builds a Logger from opts. Unknown formats fall back to JSON via slog,
// a nil Writer means stdout.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	var l Logger
	switch strings.ToLower(opts.Format) {
	case FormatZerolog:
		zl := zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		l = NewZerologLogger(zl)
	case FormatText:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		l = NewSlogLogger(slog.New(h))
	default:
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		l = NewSlogLogger(slog.New(h))
	}

	if opts.Service != "" {
		l = l.With("service", opts.Service)
	}
	return l
}

// NewRotatingFile returns a size-rotated log file writer.
func NewRotatingFile(path string, maxSizeMB, maxBackups int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
}

func slogLevel(level string) slog.Level {
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

func zerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
