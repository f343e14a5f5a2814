package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	message TEXT,
	branch TEXT,
	raw_command TEXT,
	reason TEXT,
	challenge TEXT,
	confirmed INTEGER,
	executed INTEGER,
	succeeded INTEGER,
	failed_command TEXT,
	commands_run INTEGER
);`

// timestampLayout keeps a fixed width so that text order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, timestamp, message, branch, raw_command, reason, challenge,
	confirmed, executed, succeeded, failed_command, commands_run FROM runs`

// SQLiteStore persists run history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open returns a SQLite store at path, falling back to a JSON lines file next
// to it when the database cannot be opened.
func Open(path string, log ports.Logger) ports.HistoryRepository {
	store, err := NewSQLiteStore(path)
	if err == nil {
		return store
	}
	fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
	if log != nil {
		log.Warn("sqlite history unavailable, using jsonl", map[string]interface{}{
			"error": err.Error(),
			"path":  fallback,
		})
	}
	return NewFileStore(fallback)
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save inserts a new record.
func (s *SQLiteStore) Save(ctx context.Context, record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(id, timestamp, message, branch, raw_command, reason, challenge,
		 confirmed, executed, succeeded, failed_command, commands_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Message,
		record.Branch,
		record.RawCommand,
		record.Reason,
		record.Challenge,
		boolToInt(record.Confirmed),
		boolToInt(record.Executed),
		boolToInt(record.Succeeded),
		record.FailedCommand,
		record.CommandsRun,
	)
	return err
}

// Records returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *SQLiteStore) Records(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := selectColumns + " ORDER BY timestamp DESC, rowid DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var ts string
		var confirmed, executed, succeeded int
		if err := rows.Scan(&rec.ID, &ts, &rec.Message, &rec.Branch, &rec.RawCommand, &rec.Reason,
			&rec.Challenge, &confirmed, &executed, &succeeded, &rec.FailedCommand, &rec.CommandsRun); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Confirmed = confirmed == 1
		rec.Executed = executed == 1
		rec.Succeeded = succeeded == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	return err
}

// Export writes every record, newest first, as JSON lines.
func (s *SQLiteStore) Export(ctx context.Context, w io.Writer) error {
	records, err := s.Records(ctx, 0)
	if err != nil {
		return err
	}
	return writeLines(w, records)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func writeLines(w io.Writer, records []domain.RunRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
