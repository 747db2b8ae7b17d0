package sql

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Path string
}

type Database interface {
	Client
	Close() error
}

type database struct {
	*sqlx.DB
}

// NewDatabase opens the local SQLite file, creating parent directories when
// missing.
func NewDatabase(config *Config) (Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	err := os.MkdirAll(filepath.Dir(config.Path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// a local file database has a single writer
	db.SetMaxOpenConns(1)

	return &database{db}, nil
}
