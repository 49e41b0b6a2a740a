package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Document names used as primary keys
const (
	playersDocument = "players"
	queueDocument   = "queue"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	)
`

// Storage keeps each document as a row of a SQLite table
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Storage, error) {
	dsn := path
	if path != ":memory:" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, storage.IOError("resolve "+path, err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, storage.IOError("create directory for "+path, err)
		}
		dsn = abs
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storage.IOError("open "+path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, storage.IOError("configure "+path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, storage.IOError("migrate "+path, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) LoadPlayers(ctx context.Context) (model.Collection, error) {
	data, err := s.get(ctx, playersDocument)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.Collection{}, nil
	}
	return storage.DecodePlayers(data)
}

func (s *Storage) SavePlayers(ctx context.Context, players model.Collection) error {
	data, err := storage.EncodePlayers(players)
	if err != nil {
		return err
	}
	return s.put(ctx, playersDocument, data)
}

// Queue operations

func (s *Storage) LoadQueue(ctx context.Context) ([]string, error) {
	data, err := s.get(ctx, queueDocument)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []string{}, nil
	}
	return storage.DecodeQueue(data)
}

func (s *Storage) SaveQueue(ctx context.Context, queue []string) error {
	data, err := storage.EncodeQueue(queue)
	if err != nil {
		return err
	}
	return s.put(ctx, queueDocument, data)
}

// PutRaw stores an already encoded document body, for tests
func (s *Storage) PutRaw(ctx context.Context, name string, body []byte) error {
	return s.put(ctx, name, body)
}

// get returns nil data when the document row does not exist
func (s *Storage) get(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.IOError("load "+name, err)
	}
	if body == nil {
		body = []byte{}
	}
	return body, nil
}

func (s *Storage) put(ctx context.Context, name string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, name, body, time.Now().UTC())
	if err != nil {
		return storage.IOError("save "+name, err)
	}
	return nil
}
