package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store is an open, migrated database together with its repositories.
type Store struct {
	DB    *sql.DB
	Repos Manager
}

// InitDatabase opens the SQLite database at dsn and brings its schema up to
// date. The pool holds a single connection: the program is one actor, and
// it keeps ":memory:" databases usable.
func InitDatabase(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := NewSQLiteManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{DB: db, Repos: m}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
