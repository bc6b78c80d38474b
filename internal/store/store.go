// Package store persists record.File rows into a SQLite-backed table,
// generating its schema and upsert statement from record.Columns so
// the two never drift apart.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/reconscan/recon/internal/query"
	"github.com/reconscan/recon/internal/record"
)

// Store wraps a pooled *sql.DB handle to the files table.
type Store struct {
	db *sql.DB
}

// Connect opens dbURL (a filesystem path, or ":memory:"), applies the
// ambient PRAGMAs and runs idempotent forward migrations.
func Connect(dbURL string) (*Store, error) {
	if dbURL != ":memory:" {
		if dir := filepath.Dir(dbURL); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for callers (e.g. QuerySurface)
// that need to run arbitrary SQL directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Acquire hands out a pooled connection for transactional batches.
func (s *Store) Acquire(ctx context.Context) (*sql.Conn, error) {
	return s.db.Conn(ctx)
}

func ensureSchema(db *sql.DB) error {
	var cols []string
	for _, c := range record.Columns {
		cols = append(cols, fmt.Sprintf("%s %s", c, sqlType(c)))
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS files (\n\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n\t%s\n);",
		strings.Join(cols, ",\n\t"),
	)
	stmts := []string{
		ddl,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_files_abs_path ON files(abs_path);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// sqlType maps a column name to its declared SQLite type. SQLite's
// dynamic typing means this is mostly documentation, but it keeps the
// DDL readable and lets INTEGER/BOOLEAN columns round-trip cleanly.
func sqlType(col string) string {
	switch col {
	case "abs_path", "path":
		return "TEXT NOT NULL"
	case "entry_time":
		return "TEXT NOT NULL"
	case "is_dir", "is_file", "is_symlink", "is_empty", "is_archive",
		"is_document", "is_media", "is_code", "is_ignored", "is_binary", "computed":
		return "BOOLEAN"
	case "size", "uid", "gid":
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// Clear deletes every row in the files table.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files;"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Exists reports whether a row with the given abs_path is present.
func (s *Store) Exists(ctx context.Context, absPath string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM files WHERE abs_path = ? LIMIT 1;", absPath).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// upsertSQL is synthesized once from record.Columns: id is never bound
// and never updated, every other column is overwritten on conflict.
func upsertSQL() string {
	placeholders := make([]string, len(record.Columns))
	updates := make([]string, len(record.Columns))
	for i, c := range record.Columns {
		placeholders[i] = "?"
		updates[i] = fmt.Sprintf("%s=excluded.%s", c, c)
	}
	return fmt.Sprintf(
		"INSERT INTO files(%s) VALUES(%s) ON CONFLICT(abs_path) DO UPDATE SET %s;",
		strings.Join(record.Columns, ","),
		strings.Join(placeholders, ","),
		strings.Join(updates, ","),
	)
}

// upsertStatement holds the upsert text, built once at package
// initialization and reused by every InsertOne.
var upsertStatement = upsertSQL()

// InsertOne upserts f keyed on abs_path; every column but id is
// overwritten from the incoming record on conflict.
func (s *Store) InsertOne(ctx context.Context, f *record.File) error {
	args, err := record.Bind(f)
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, upsertStatement, args...); err != nil {
		return fmt.Errorf("insert_one %s: %w", f.AbsPath, err)
	}
	return nil
}

// QueryFiles executes sqlText and materializes matching rows as
// record.File values, used to drive the enrichment pass.
func (s *Store) QueryFiles(ctx context.Context, sqlText string, args ...any) ([]*record.File, error) {
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query_files: %w", err)
	}
	defer rows.Close()
	return record.ScanRows(rows)
}

// QueryTable executes sqlText and returns an untyped ValuesTable,
// preserving column order and computing total_rows as count(*) over
// the files table (a reference denominator, not the query's own row
// count).
func (s *Store) QueryTable(ctx context.Context, sqlText string, args ...any) (*query.ValuesTable, error) {
	return query.Query(ctx, s.db, sqlText, args...)
}
