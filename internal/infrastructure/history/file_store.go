package history

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// FileStore appends history records to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a history store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(_ context.Context, record domain.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
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

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Records loads up to limit entries, newest first (best-effort: unreadable
// lines are skipped).
func (f *FileStore) Records(_ context.Context, limit int) ([]domain.RunRecord, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.RunRecord
	for i := len(lines) - 1; i >= 0; i-- {
		if limit > 0 && len(records) == limit {
			break
		}
		if len(lines[i]) == 0 {
			continue
		}
		var rec domain.RunRecord
		if err := json.Unmarshal(lines[i], &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Export writes every record, newest first, as JSON lines.
func (f *FileStore) Export(ctx context.Context, w io.Writer) error {
	records, err := f.Records(ctx, 0)
	if err != nil {
		return err
	}
	return writeLines(w, records)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
