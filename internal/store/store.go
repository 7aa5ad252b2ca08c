// Package store persists holdings, saved goals and the watchlist in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store provides SQLite-backed persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dsn := MemoryPath
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if dbPath == MemoryPath {
		// every new connection would see an empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func parseDate(value string) time.Time {
	t, _ := time.Parse(constants.DateLayout, value)
	return t
}

// checkAffected maps an update or delete that touched no rows to ErrNotFound.
func checkAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
