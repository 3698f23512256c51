package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "formbuddy.sqlite"

// SQLiteBlobs stores blobs as rows of a single key/value table in the workspace SQLite db.
type SQLiteBlobs struct {
	Path string
	db   *sql.DB
}

// OpenSQLite opens (creating if needed) <dir>/formbuddy.sqlite.
func OpenSQLite(ctx context.Context, dir string) (*SQLiteBlobs, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("sqlite: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, sqliteFileName)

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL keeps a concurrent reader (e.g. `formbuddy tasks list` while the TUI is open) from blocking writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteBlobs(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteBlobs{Path: path, db: db}, nil
}

func migrateSQLiteBlobs(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS blobs (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteBlobs) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM blobs WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (s *SQLiteBlobs) Put(ctx context.Context, key string, b []byte) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO blobs(k, v, updated_at_unixms) VALUES(?, ?, ?)`, key, string(b), nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteBlobs) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
