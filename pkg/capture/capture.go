// Package capture catalogs serial capture sessions in a local SQLite
// database. Each row stores a JSON document describing one recording:
// the port and framing it came from, the file the bytes went to, and
// how many bytes arrived.
package capture

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates the requested capture doesn't exist in the catalog.
var ErrNotFound = errors.New("capture not found")

// Capture describes one recorded serial session.
type Capture struct {
	ID        string  `json:"-"` // Catalog key, cap_<uuid> (not serialized)
	Port      string  `json:"port"`
	Baud      int     `json:"baud"`
	File      string  `json:"file"`
	StartedAt string  `json:"started_at"` // RFC3339 timestamp
	Seconds   float64 `json:"seconds"`
	Bytes     int     `json:"bytes"`
	SevenBit  bool    `json:"seven_bit"`
}

// Config holds catalog configuration options.
type Config struct {
	DBPath string // Path to captures.db (defaults to ~/.zxbasic/captures.db)
}

// Store is an open capture catalog.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens the capture catalog, creating the database and its parent
// directory when missing. If cfg is nil, defaults are used.
func Open(cfg *Config) (*Store, error) {
	s := &Store{}

	if cfg != nil && cfg.DBPath != "" {
		s.dbPath = cfg.DBPath
	} else if p := os.Getenv("ZXBASIC_CAPTURE_DB"); p != "" {
		s.dbPath = p
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home dir: %w", err)
		}
		s.dbPath = filepath.Join(home, ".zxbasic", "captures.db")
	}

	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		data JSON NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating captures table: %w", err)
	}

	return s, nil
}

// Close closes the catalog and its database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file backing the catalog.
func (s *Store) Path() string {
	return s.dbPath
}

// Record stores c and returns its catalog ID, generating the ID and
// start timestamp when absent.
func (s *Store) Record(c *Capture) (string, error) {
	if c.ID == "" {
		c.ID = "cap_" + uuid.New().String()
	}
	if c.StartedAt == "" {
		c.StartedAt = time.Now().Format(time.RFC3339)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling capture: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO captures (id, data) VALUES (?, json(?))",
		c.ID, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("saving capture: %w", err)
	}
	return c.ID, nil
}

// Get loads one capture by ID.
func (s *Store) Get(id string) (*Capture, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM captures WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying capture: %w", err)
	}

	var c Capture
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("unmarshaling capture: %w", err)
	}
	c.ID = id
	return &c, nil
}

// List returns every capture, newest first.
func (s *Store) List() ([]Capture, error) {
	rows, err := s.db.Query(
		"SELECT id, data FROM captures ORDER BY json_extract(data, '$.started_at') DESC, id")
	if err != nil {
		return nil, fmt.Errorf("querying captures: %w", err)
	}
	defer rows.Close()

	var out []Capture
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning capture row: %w", err)
		}
		var c Capture
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("unmarshaling capture %s: %w", id, err)
		}
		c.ID = id
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a capture record. The capture file itself is left on
// disk.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM captures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting capture: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting capture: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
