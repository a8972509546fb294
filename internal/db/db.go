package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const defaultDBName = "content-pilot.db"

// Config locates the SQLite database.
type Config struct {
	Path string // directory; created if missing
}

func dbPath(dir string) string {
	if dir == "" {
		dir = ".content-pilot"
	}
	return filepath.Join(dir, defaultDBName)
}

// Open opens the SQLite database with foreign keys on, creating the
// directory if needed.
func Open(cfg Config) (*sql.DB, error) {
	dir := cfg.Path
	if dir == "" {
		dir = ".content-pilot"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath(dir))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// between the chat path and the scheduler.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Path returns the db path for the directory.
func Path(dir string) string {
	return dbPath(dir)
}
