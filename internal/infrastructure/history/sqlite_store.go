// Package history persists invocation records.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/pkg/filesystem"
	"github.com/doeshing/aicoder/internal/ports"
)

// SQLiteStore persists invocation history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.aicoder/history/history.db
// database. When the database cannot be opened the store degrades to the
// JSONL file fallback.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".aicoder", "history", "history.db")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		prompt TEXT,
		model TEXT,
		agent_mode INTEGER,
		degraded INTEGER,
		commands_found INTEGER,
		commands_run INTEGER,
		commands_failed INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.InvocationRecord) error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO invocations
		(id, timestamp, prompt, model, agent_mode, degraded, commands_found, commands_run, commands_failed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(time.RFC3339),
		record.Prompt,
		record.Model,
		boolToInt(record.AgentMode),
		boolToInt(record.Degraded),
		record.CommandsFound,
		record.CommandsRun,
		record.CommandsFailed,
		record.DurationMS,
	)
	return err
}

// Records returns history entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.InvocationRecord, error) {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, prompt, model, agent_mode, degraded, commands_found, commands_run, commands_failed, duration_ms FROM invocations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE prompt LIKE ? OR model LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.InvocationRecord
	for rows.Next() {
		var rec domain.InvocationRecord
		var ts string
		var agentMode, degraded int
		if err := rows.Scan(&rec.ID, &ts, &rec.Prompt, &rec.Model, &agentMode, &degraded,
			&rec.CommandsFound, &rec.CommandsRun, &rec.CommandsFailed, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.AgentMode = agentMode == 1
		rec.Degraded = degraded == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM invocations")
	return err
}

// ExportJSON writes the invocation table to a JSONL file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallbackPath() string {
	return strings.TrimSuffix(s.path, ".db") + ".jsonl"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
