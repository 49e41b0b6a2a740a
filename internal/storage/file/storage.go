package file

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Document file names inside the data directory
const (
	PlayersFile = "players.json"
	QueueFile   = "queue.json"
)

// Storage keeps each document as a JSON file in a data directory
type Storage struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// New creates a file storage rooted at dir on the given filesystem
func New(fsys afero.Fs, dir string, logger *slog.Logger) *Storage {
	return &Storage{
		fs:     fsys,
		dir:    dir,
		logger: logger,
	}
}

// NewOS creates a file storage on the operating system filesystem
func NewOS(dir string, logger *slog.Logger) *Storage {
	return New(afero.NewOsFs(), dir, logger)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// PlayersPath returns the path of the players document
func (s *Storage) PlayersPath() string {
	return filepath.Join(s.dir, PlayersFile)
}

// QueuePath returns the path of the queue document
func (s *Storage) QueuePath() string {
	return filepath.Join(s.dir, QueueFile)
}

// Player operations

func (s *Storage) LoadPlayers(ctx context.Context) (model.Collection, error) {
	data, err := s.read(s.PlayersPath(), storage.EmptyPlayers())
	if err != nil {
		return nil, err
	}
	return storage.DecodePlayers(data)
}

func (s *Storage) SavePlayers(ctx context.Context, players model.Collection) error {
	data, err := storage.EncodePlayers(players)
	if err != nil {
		return err
	}
	return s.write(s.PlayersPath(), data)
}

// Queue operations

func (s *Storage) LoadQueue(ctx context.Context) ([]string, error) {
	data, err := s.read(s.QueuePath(), storage.EmptyQueue())
	if err != nil {
		return nil, err
	}
	return storage.DecodeQueue(data)
}

func (s *Storage) SaveQueue(ctx context.Context, queue []string) error {
	data, err := storage.EncodeQueue(queue)
	if err != nil {
		return err
	}
	return s.write(s.QueuePath(), data)
}

// read returns the document at path, creating it with empty content if it does not exist yet
func (s *Storage) read(path string, empty []byte) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, storage.IOError("read "+path, err)
	}

	s.logger.Debug("initializing missing document", slog.String("path", path))
	if err := s.write(path, empty); err != nil {
		return nil, err
	}
	return empty, nil
}

// write replaces the document at path by writing a temp file and renaming it into place
func (s *Storage) write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return storage.IOError("create "+dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return storage.IOError("write "+path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return storage.IOError("write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return storage.IOError("write "+path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return storage.IOError("write "+path, err)
	}
	return nil
}
