package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger on stderr shared by all commands.
// quiet limits it to errors.
func NewLogger(quiet bool) *slog.Logger {
	return NewLoggerTo(os.Stderr, quiet)
}

func NewLoggerTo(w io.Writer, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Plural formats n with word, adding "s" unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
