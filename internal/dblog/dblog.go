// Package dblog provides the single package-level logger the storage core
// and its command-line entry point share, following the structured-logging
// convention the rest of the stack's middleware uses zerolog for.
package dblog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(io.Discard).With().Timestamp().Logger()
)

// L returns the shared logger. By default it discards everything — library
// code (page, pagetable, tuple, value, codec) never logs, only the catalog
// does, and the command-line entry point is responsible for calling
// SetOutput/SetLevel before doing any work that should surface log lines.
func L() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetOutput redirects the shared logger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the minimum level the shared logger emits.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}

// Disable silences the shared logger entirely, for callers that don't
// want catalog operational logs interleaved with their own output.
func Disable() {
	SetOutput(os.Stderr)
	SetLevel(zerolog.Disabled)
}
