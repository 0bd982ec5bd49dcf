package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/pkg/filesystem"
	"github.com/doeshing/aicoder/internal/ports"
)

// FileStore appends invocation records to a JSONL file. Used as the fallback
// when SQLite is unavailable.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store under ~/.aicoder/history/history.jsonl.
func NewFileStore() *FileStore {
	return &FileStore{
		path: filepath.Join(filesystem.UserHomeDir(), ".aicoder", "history", "history.jsonl"),
	}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(record domain.InvocationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Records loads entries newest first (best-effort; malformed lines skipped).
func (f *FileStore) Records(limit int, search string) ([]domain.InvocationRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.InvocationRecord
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if len(line) == 0 {
			continue
		}
		var rec domain.InvocationRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if search != "" && !strings.Contains(rec.Prompt, search) && !strings.Contains(rec.Model, search) {
			continue
		}
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

var _ ports.HistoryRepository = (*FileStore)(nil)
