// Package store persists enhancement reports to a local SQLite journal.
// Prompt text is never stored, only the report metadata.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"promptvault/internal/config"
	"promptvault/internal/logging"
	"promptvault/internal/prompt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown entry ID.
var ErrNotFound = errors.New("history entry not found")

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 20

// Entry is one journaled enhancement.
type Entry struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	ProfileName    string         `json:"profile_name"`
	Profile        config.Profile `json:"psychological_profile"`
	OriginalLength int            `json:"original_length"`
	EnhancedLength int            `json:"enhanced_length"`
	Techniques     []string       `json:"techniques_applied"`
	StealthScore   float64        `json:"stealth_score"`
}

// EntryFromReport copies the report fields into a new entry. ID and
// CreatedAt are filled in by Record.
func EntryFromReport(r prompt.Report) Entry {
	return Entry{
		ProfileName:    r.ProfileName,
		Profile:        r.Profile,
		OriginalLength: r.OriginalLength,
		EnhancedLength: r.EnhancedLength,
		Techniques:     r.TechniqueNames(),
		StealthScore:   r.StealthScore,
	}
}

// History is the report journal.
type History struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	now    func() time.Time
}

// Open creates or opens the journal at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	h := &History{db: db, dbPath: path, now: time.Now}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("Opened history journal at %s", path)
	return h, nil
}

func (h *History) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS enhancements (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		profile_name TEXT NOT NULL,
		profile_json TEXT NOT NULL,
		original_length INTEGER NOT NULL,
		enhanced_length INTEGER NOT NULL,
		techniques_json TEXT NOT NULL,
		stealth_score REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_enhancements_created ON enhancements(created_at);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (h *History) Path() string { return h.dbPath }

// Close closes the database connection.
func (h *History) Close() error { return h.db.Close() }

// Record inserts e, assigning an ID and timestamp when they are unset.
func (h *History) Record(ctx context.Context, e Entry) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = h.now()
	}
	if e.Techniques == nil {
		e.Techniques = []string{}
	}

	profileJSON, err := json.Marshal(e.Profile)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	techniquesJSON, err := json.Marshal(e.Techniques)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode techniques: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO enhancements (id, created_at, profile_name, profile_json,
			original_length, enhanced_length, techniques_json, stealth_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CreatedAt.UnixNano(), e.ProfileName, string(profileJSON),
		e.OriginalLength, e.EnhancedLength, string(techniquesJSON), e.StealthScore)
	if err != nil {
		logging.StoreError("failed to record enhancement %s: %v", e.ID, err)
		return Entry{}, fmt.Errorf("failed to record enhancement: %w", err)
	}
	logging.Get(logging.CategoryStore).With("id", e.ID, "profile", e.ProfileName).Debug("recorded enhancement")
	logging.Audit().Journaled(e.ID, e.ProfileName)
	return e, nil
}

const selectColumns = `id, created_at, profile_name, profile_json,
	original_length, enhanced_length, techniques_json, stealth_score`

// Recent returns up to limit entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM enhancements ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Get returns one entry by ID.
func (h *History) Get(ctx context.Context, id string) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	row := h.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM enhancements WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Count returns the number of journaled entries.
func (h *History) Count(ctx context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var n int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enhancements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// TechniqueCounts tallies how often each technique appears across the journal.
func (h *History) TechniqueCounts(ctx context.Context) (map[string]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.QueryContext(ctx, `SELECT techniques_json FROM enhancements`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan techniques: %w", err)
		}
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, fmt.Errorf("failed to decode techniques: %w", err)
		}
		for _, n := range names {
			counts[n]++
		}
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e              Entry
		createdAt      int64
		profileJSON    string
		techniquesJSON string
	)
	err := s.Scan(&e.ID, &createdAt, &e.ProfileName, &profileJSON,
		&e.OriginalLength, &e.EnhancedLength, &techniquesJSON, &e.StealthScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan history entry: %w", err)
	}

	e.CreatedAt = time.Unix(0, createdAt)
	if err := json.Unmarshal([]byte(profileJSON), &e.Profile); err != nil {
		return Entry{}, fmt.Errorf("failed to decode profile of %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(techniquesJSON), &e.Techniques); err != nil {
		return Entry{}, fmt.Errorf("failed to decode techniques of %s: %w", e.ID, err)
	}
	return e, nil
}
