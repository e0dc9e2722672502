package cmd

import (
	"log/slog"
	"os"
)

// newLogger builds the process logger. Verbose lowers the level to debug;
// output goes to stderr so machine-readable report output on stdout stays
// clean.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
