package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names one kind of audit record.
type AuditEventType string

const (
	AuditTablesLoaded AuditEventType = "tables_loaded"
	AuditEnhance      AuditEventType = "enhance"
	AuditIntervention AuditEventType = "intervention"
	AuditJournal      AuditEventType = "journal"
	AuditWatchStart   AuditEventType = "watch_start"
	AuditWatchStop    AuditEventType = "watch_stop"
	AuditError        AuditEventType = "error"
)

// AuditEvent is one JSON line of the audit log. Prompt text never appears
// in an event; only lengths, names and scores do.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`               // Unix milliseconds
	EventType  AuditEventType         `json:"event"`            // Record kind
	Category   string                 `json:"cat"`              // Log category
	Target     string                 `json:"target,omitempty"` // Path, profile or entry ID
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger writes audit events, optionally tagged with a category.
type AuditLogger struct {
	category Category
}

// initAudit opens <logsDir>/<date>_audit.log. Called by Initialize.
func initAudit(logsDir string) error {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	auditPath := filepath.Join(logsDir, time.Now().Format("2006-01-02")+"_audit.log")
	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns an untagged audit logger.
func Audit() *AuditLogger {
	return &AuditLogger{}
}

// AuditFor returns an audit logger whose events default to category.
func AuditFor(category Category) *AuditLogger {
	return &AuditLogger{category: category}
}

// Log writes an audit event. No-op unless debug mode opened an audit file.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.Category == "" && a.category != "" {
		event.Category = string(a.category)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return
	}
	auditFile.Write(append(data, '\n'))
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// TablesLoaded records a successful table load.
func (a *AuditLogger) TablesLoaded(configPath, techniquesPath string, elapsed time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditTablesLoaded,
		Category:   string(CategoryConfig),
		Target:     configPath,
		Success:    true,
		DurationMs: elapsed.Milliseconds(),
		Fields:     map[string]interface{}{"techniques_path": techniquesPath},
		Message:    fmt.Sprintf("Tables loaded: %s, %s", configPath, techniquesPath),
	})
}

// Enhanced records one pipeline run.
func (a *AuditLogger) Enhanced(profile string, techniques []string, score float64, originalLen, enhancedLen int, elapsed time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditEnhance,
		Category:   string(CategoryPrompt),
		Target:     profile,
		Success:    true,
		DurationMs: elapsed.Milliseconds(),
		Fields: map[string]interface{}{
			"techniques":      techniques,
			"stealth_score":   score,
			"original_length": originalLen,
			"enhanced_length": enhancedLen,
		},
		Message: fmt.Sprintf("Enhanced with %s profile: %d techniques, score %.2f", profile, len(techniques), score),
	})
}

// Intervention records a positive break suggestion.
func (a *AuditLogger) Intervention(activity string, recentEdits int) {
	a.Log(AuditEvent{
		EventType: AuditIntervention,
		Category:  string(CategoryUsage),
		Target:    activity,
		Success:   true,
		Fields:    map[string]interface{}{"recent_edits": recentEdits},
		Message:   fmt.Sprintf("Intervention during %s after %d edits", activity, recentEdits),
	})
}

// Journaled records a history write.
func (a *AuditLogger) Journaled(id, profile string) {
	a.Log(AuditEvent{
		EventType: AuditJournal,
		Category:  string(CategoryStore),
		Target:    id,
		Success:   true,
		Fields:    map[string]interface{}{"profile": profile},
		Message:   fmt.Sprintf("Journaled %s", id),
	})
}

// WatchStarted records the start of a watch session.
func (a *AuditLogger) WatchStarted(path string) {
	a.Log(AuditEvent{
		EventType: AuditWatchStart,
		Category:  string(CategoryWatch),
		Target:    path,
		Success:   true,
		Message:   fmt.Sprintf("Watching %s", path),
	})
}

// WatchStopped records the end of a watch session.
func (a *AuditLogger) WatchStopped(path string, deliveries, errors int) {
	a.Log(AuditEvent{
		EventType: AuditWatchStop,
		Category:  string(CategoryWatch),
		Target:    path,
		Success:   errors == 0,
		Fields:    map[string]interface{}{"deliveries": deliveries, "errors": errors},
		Message:   fmt.Sprintf("Stopped watching %s (%d deliveries, %d errors)", path, deliveries, errors),
	})
}

// Error records a failed operation.
func (a *AuditLogger) Error(target string, err error) {
	a.Log(AuditEvent{
		EventType: AuditError,
		Target:    target,
		Success:   false,
		Error:     err.Error(),
		Message:   fmt.Sprintf("Failed: %s", target),
	})
}
