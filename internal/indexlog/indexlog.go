// Package indexlog is the structured logger used by the incremental indexer
// and its progress-event emission. It is adapted from the teacher's
// zap-based internal/logger, repurposed here for high-frequency
// phase/counter logging rather than general application logging (which is
// pkg/logger's job — see DESIGN.md for why both loggers are kept, each with
// its own call sites).
package indexlog

import "go.uber.org/zap"

var base *zap.Logger

// Init sets up the process-wide indexer logger with zap's production
// config. It is safe to call more than once; later calls are no-ops once a
// logger is installed.
func Init() error {
	if base != nil {
		return nil
	}
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	base = l
	return nil
}

// Get returns the process-wide indexer logger, initializing a default one
// lazily if Init was never called.
func Get() *zap.Logger {
	if base == nil {
		base, _ = zap.NewProduction()
	}
	return base
}

// ForRoot returns a child logger scoped to one indexing run.
func ForRoot(rootPath string) *zap.Logger {
	return Get().With(zap.String("root_path", rootPath))
}

// Sync flushes buffered log entries; safe to call on process exit even if
// Init was never called.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
