package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createCharactersTable = `CREATE TABLE IF NOT EXISTS characters (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps one row per character, so saving one character never
// rewrites another.
type SQLiteStore struct {
	sqlDB *sql.DB
}

var _ StateStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (and creates) the database at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createCharactersTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create characters table: %w", err)
	}

	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// LoadAll returns every stored character document
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, document FROM characters`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	all := make(map[string]json.RawMessage)
	for rows.Next() {
		var id, document string
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		all[id] = json.RawMessage(document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return all, nil
}

// Load returns one character document
func (s *SQLiteStore) Load(ctx context.Context, id string) (json.RawMessage, bool, error) {
	var document string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT document FROM characters WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load character %s: %w", id, err)
	}
	return json.RawMessage(document), true, nil
}

// Save upserts one character document
func (s *SQLiteStore) Save(ctx context.Context, id string, doc json.RawMessage) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO characters (id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		id, string(doc), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save character %s: %w", id, err)
	}
	return nil
}

// Close closes the database handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
