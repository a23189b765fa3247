package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names match the registered database/sql driver names.
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite"
)

// SQLStore keeps artifacts in one table of a Postgres or SQLite database.
type SQLStore struct {
	db      *sql.DB
	dialect string

	schemaMu    sync.Mutex
	schemaReady bool
}

// OpenSQLStore opens dsn with the driver named by dialect.
func OpenSQLStore(dialect, dsn string) (*SQLStore, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// a single connection serializes writers
		db.SetMaxOpenConns(1)
	}
	return NewSQLStore(db, dialect), nil
}

func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	blob, ts := "BLOB", "TIMESTAMP"
	if s.dialect == DialectPostgres {
		blob, ts = "BYTEA", "TIMESTAMP WITH TIME ZONE"
	}
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	// a failed attempt is not remembered; the next call tries again
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS artifact_files (
    run_id TEXT NOT NULL,
    path TEXT NOT NULL,
    content `+blob+` NOT NULL,
    size BIGINT NOT NULL,
    updated_at `+ts+` NOT NULL,
    PRIMARY KEY (run_id, path)
)`); err != nil {
		return fmt.Errorf("create artifact_files: %w", err)
	}
	s.schemaReady = true
	return nil
}

// rebind rewrites "?" placeholders for the postgres driver.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Put(ctx context.Context, runID, path string, content []byte) error {
	runID, path, err := checkKey(runID, path)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO artifact_files (run_id, path, content, size, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (run_id, path)
DO UPDATE SET content=excluded.content, size=excluded.size, updated_at=excluded.updated_at`),
		runID, path, content, int64(len(content)), time.Now().UTC())
	return err
}

func (s *SQLStore) Get(ctx context.Context, runID, path string) ([]byte, error) {
	runID, path, err := checkKey(runID, path)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var content []byte
	err = s.db.QueryRowContext(ctx, s.rebind(`SELECT content FROM artifact_files WHERE run_id=? AND path=?`), runID, path).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return content, err
}

func (s *SQLStore) List(ctx context.Context, runID string) ([]string, error) {
	runID, _, err := checkKey(runID, "_")
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT path FROM artifact_files WHERE run_id=? ORDER BY path`), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
