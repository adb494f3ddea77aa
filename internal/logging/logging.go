// Package logging provides categorized zap loggers for the pipeline.
// Each pipeline stage logs under its own named logger so a single turn can
// be traced stage by stage with `--verbose`.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a pipeline stage for log attribution.
type Category string

const (
	CategoryTemporal   Category = "temporal"
	CategoryPerception Category = "perception"
	CategorySession    Category = "session"
	CategoryDispatch   Category = "dispatch"
	CategoryPipeline   Category = "pipeline"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init builds the process logger. Verbose enables debug-level decision
// traces; otherwise only dispatched actions and failures are logged.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// For returns the named logger for a category. Safe before Init; callers
// get a nop logger until the process configures logging.
func For(c Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(c))
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
