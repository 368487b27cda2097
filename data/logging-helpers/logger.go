package logginghelpers

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	// "text" or "json" for the console output
	Format string
	Level  slog.Level
	// when set every record is also appended to this file as json
	File string
}

// NewLogger builds the process logger. The returned closer releases the log
// file and is safe to call when no file was opened.
func NewLogger(console io.Writer, opts Options) (*slog.Logger, func() error, error) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level, ReplaceAttr: replaceLevel}

	var consoleHandler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		consoleHandler = slog.NewTextHandler(console, handlerOpts)
	case "json":
		consoleHandler = slog.NewJSONHandler(console, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	handler := NewMultiHandler(consoleHandler)
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		handler.AddHandler(slog.NewJSONHandler(f, handlerOpts))
		closer = f.Close
	}
	return slog.New(handler), closer, nil
}
