package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a handle on a run history database.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// Connection settings, applied by the driver to every connection it opens.
var dsnParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"1"},
}

// Open opens the database at path for recording runs, creating the file and
// its tables if needed.
func Open(path string) (*Store, error) {
	db, err := connect(path, dsnParams)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database for the history and trace
// commands. Nothing is created or written: a missing file yields an error
// wrapping fs.ErrNotExist, and a file without the runs table is rejected.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	params := url.Values{"mode": {"ro"}}
	for k, v := range dsnParams {
		if k != "_journal_mode" {
			params[k] = v
		}
	}
	db, err := connect(path, params)
	if err != nil {
		return nil, err
	}

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'runs'`).Scan(&name)
	if err != nil {
		db.Close()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s is not a run history database", path)
		}
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	return &Store{db: db, readOnly: true}, nil
}

// connect opens a single-connection pool; SQLite serializes writers anyway.
func connect(path string, params url.Values) (*sql.DB, error) {
	dsn := "file:" + path + "?" + params.Encode()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragma returns the current value of a connection setting.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("query %s: %w", name, err)
	}
	return value, nil
}
