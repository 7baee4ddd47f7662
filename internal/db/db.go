package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when an update or delete targets a row that
// does not exist.
var ErrNotFound = errors.New("not found")

// Publisher receives the name of a table after one of its rows changed.
// *notify.Bus satisfies it; tests pass a stub.
type Publisher interface {
	Publish(table string)
}

// noopPublisher is used when no bus is attached.
type noopPublisher struct{}

func (noopPublisher) Publish(string) {}

// DB wraps the database connection
type DB struct {
	*sql.DB
	pub    Publisher
	logger *slog.Logger
}

// New opens (or creates) the database at path and initializes the
// schema. The caller is responsible for calling Close.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{DB: conn, pub: noopPublisher{}, logger: slog.Default()}, nil
}

// SetPublisher attaches a change publisher. Every successful write
// publishes the affected table's name so listeners can refetch.
func (db *DB) SetPublisher(p Publisher) {
	if p != nil {
		db.pub = p
	}
}

// SetLogger attaches a logger used for best-effort secondary writes.
func (db *DB) SetLogger(l *slog.Logger) {
	if l != nil {
		db.logger = l
	}
}

func (db *DB) changed(table string) {
	db.pub.Publish(table)
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "teamdash")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "teamdash.db"), nil
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
