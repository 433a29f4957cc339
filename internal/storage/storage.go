// Package storage persists board snapshots and preferences to a local
// SQLite file used as a plain key-value store. Values under board keys
// are JSON snapshots; preference values are plain strings. Reads fall
// back to documented defaults so a missing or corrupt store never
// blocks startup.
package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"plank/internal/board"
)

// Store keys, one per persisted value.
const (
	keySelection = "pref:profile"
	keyDarkMode  = "pref:dark"
)

func boardKey(p board.Profile) string {
	return "board:" + string(p)
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// LoadBoard reads a profile's snapshot. A missing key, unreadable
// store, or unparseable value falls back to the seed board; in-memory
// state stays authoritative either way.
func (s *Store) LoadBoard(p board.Profile) board.Board {
	raw, ok, err := s.get(boardKey(p))
	if err != nil {
		log.WithError(err).WithField("profile", p).Warn("board load failed, using seed board")
		return board.DefaultBoard()
	}
	if !ok {
		return board.DefaultBoard()
	}
	var b board.Board
	if err := sonic.Unmarshal(raw, &b); err != nil {
		log.WithError(err).WithField("profile", p).Warn("board snapshot unreadable, using seed board")
		return board.DefaultBoard()
	}
	if err := b.Check(); err != nil {
		log.WithError(err).WithField("profile", p).Warn("stored board inconsistent, using seed board")
		return board.DefaultBoard()
	}
	return b
}

// SaveBoard writes the full snapshot for one profile. Callers treat a
// failure as best-effort: log and continue, the next successful write
// recovers durability.
func (s *Store) SaveBoard(p board.Profile, b board.Board) error {
	raw, err := sonic.Marshal(b)
	if err != nil {
		return err
	}
	return s.put(boardKey(p), raw)
}

// LoadSelection returns the last active profile preference, defaulting
// to the work profile for unknown or missing values.
func (s *Store) LoadSelection() board.Selection {
	raw, ok, err := s.get(keySelection)
	if err != nil || !ok {
		return board.SelectWork
	}
	switch sel := board.Selection(raw); sel {
	case board.SelectWork, board.SelectPersonal, board.SelectAll:
		return sel
	}
	return board.SelectWork
}

func (s *Store) SaveSelection(sel board.Selection) error {
	return s.put(keySelection, []byte(sel))
}

func (s *Store) LoadDarkMode() bool {
	raw, ok, err := s.get(keyDarkMode)
	if err != nil || !ok {
		return false
	}
	return string(raw) == "true"
}

func (s *Store) SaveDarkMode(dark bool) error {
	v := "false"
	if dark {
		v = "true"
	}
	return s.put(keyDarkMode, []byte(v))
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
