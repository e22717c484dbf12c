// Package logging provides config-driven categorized logging for promptvault.
// Logs are written to .vault/logs/ as one file per day, each entry tagged with
// its category. Logging is controlled by debug_mode in vault.yaml - when false,
// every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, workspace resolution
	CategoryConfig     Category = "config"     // Table loading and app config
	CategoryPerception Category = "perception" // Tone and load analysis
	CategoryUsage      Category = "usage"      // Activity tracking, interventions
	CategoryPrompt     Category = "prompt"     // Stealth pipeline
	CategoryStore      Category = "store"      // History journal
	CategoryWatch      Category = "watch"      // File watcher
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports.
type Options struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

// Logger writes printf-style messages for one category.
// A Logger with a nil sugar is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	opts    Options
	base    *zap.Logger
	logFile *os.File
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logsMu sync.RWMutex
)

// Initialize sets up the logs directory under workspace and builds the zap
// core. It is a silent no-op unless opts.DebugMode is set.
func Initialize(workspace string, o Options) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	logsMu.Lock()
	opts = o
	level.SetLevel(parseLevel(o.Level))
	logsMu.Unlock()

	if !o.DebugMode {
		return nil
	}

	logsDir := filepath.Join(workspace, ".vault", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(logsDir, time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if o.JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	useCore(zapcore.NewCore(enc, zapcore.AddSync(file), level), file)
	if err := initAudit(logsDir); err != nil {
		BootError("audit log unavailable: %v", err)
	}

	Boot("=== promptvault logging initialized ===")
	Boot("Workspace: %s", workspace)
	Boot("Log file: %s", logPath)
	Boot("Log level: %s", level.Level())
	BootDebug("Category toggles: %v", o.Categories)
	return nil
}

// InitializeWithCore routes all categories to core. Used by tests and by
// hosts that already own a zap pipeline.
func InitializeWithCore(core zapcore.Core, o Options) {
	logsMu.Lock()
	opts = o
	opts.DebugMode = true
	logsMu.Unlock()
	useCore(core, nil)
}

// useCore swaps in core, closing the previous daily log file. file is the
// file backing core, or nil when the caller owns the sink.
func useCore(core zapcore.Core, file *os.File) {
	logsMu.Lock()
	detachLocked()
	base = zap.New(core)
	logFile = file
	logsMu.Unlock()

	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
}

// detachLocked flushes base and closes logFile. Callers hold logsMu.
func detachLocked() {
	if base != nil {
		_ = base.Sync()
	}
	base = nil
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsDebugMode returns whether logging is active.
func IsDebugMode() bool {
	logsMu.RLock()
	defer logsMu.RUnlock()
	return opts.DebugMode && base != nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	logsMu.RLock()
	defer logsMu.RUnlock()

	if !opts.DebugMode || base == nil {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	logsMu.RLock()
	current := base
	logsMu.RUnlock()
	if current == nil {
		return &Logger{category: category}
	}

	l := &Logger{category: category, sugar: current.Named(string(category)).Sugar()}
	loggers[category] = l
	return l
}

// With returns a logger carrying extra key/value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// CloseAll flushes and detaches the core and closes the audit log (call at
// shutdown).
func CloseAll() {
	CloseAudit()

	logsMu.Lock()
	detachLocked()
	logsMu.Unlock()

	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

// BootError logs an error to the boot category
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

// Config logs to the config category
func Config(format string, args ...interface{}) { Get(CategoryConfig).Info(format, args...) }

// ConfigDebug logs debug to the config category
func ConfigDebug(format string, args ...interface{}) { Get(CategoryConfig).Debug(format, args...) }

// ConfigWarn logs a warning to the config category
func ConfigWarn(format string, args ...interface{}) { Get(CategoryConfig).Warn(format, args...) }

// PerceptionDebug logs debug to the perception category
func PerceptionDebug(format string, args ...interface{}) {
	Get(CategoryPerception).Debug(format, args...)
}

// Usage logs to the usage category
func Usage(format string, args ...interface{}) { Get(CategoryUsage).Info(format, args...) }

// UsageDebug logs debug to the usage category
func UsageDebug(format string, args ...interface{}) { Get(CategoryUsage).Debug(format, args...) }

// Prompt logs to the prompt category
func Prompt(format string, args ...interface{}) { Get(CategoryPrompt).Info(format, args...) }

// PromptDebug logs debug to the prompt category
func PromptDebug(format string, args ...interface{}) { Get(CategoryPrompt).Debug(format, args...) }

// Store logs to the store category
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreError logs an error to the store category
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// Watch logs to the watch category
func Watch(format string, args ...interface{}) { Get(CategoryWatch).Info(format, args...) }

// WatchDebug logs debug to the watch category
func WatchDebug(format string, args ...interface{}) { Get(CategoryWatch).Debug(format, args...) }

// WatchError logs an error to the watch category
func WatchError(format string, args ...interface{}) { Get(CategoryWatch).Error(format, args...) }

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
