package memory

import (
	"context"
	"sync"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Documents are kept
// encoded so that callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players []byte
	queue   []byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) LoadPlayers(ctx context.Context) (model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.players == nil {
		return model.Collection{}, nil
	}
	return storage.DecodePlayers(s.players)
}

func (s *Storage) SavePlayers(ctx context.Context, players model.Collection) error {
	data, err := storage.EncodePlayers(players)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = data
	return nil
}

// Queue operations

func (s *Storage) LoadQueue(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.queue == nil {
		return []string{}, nil
	}
	return storage.DecodeQueue(s.queue)
}

func (s *Storage) SaveQueue(ctx context.Context, queue []string) error {
	data, err := storage.EncodeQueue(queue)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = data
	return nil
}

// Raw document access, for tests

// RawPlayers returns the encoded players document, or nil if it was never written
func (s *Storage) RawPlayers() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.players...)
}

// SetRawPlayers replaces the encoded players document
func (s *Storage) SetRawPlayers(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]byte(nil), data...)
}

// SetRawQueue replaces the encoded queue document
func (s *Storage) SetRawQueue(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append([]byte(nil), data...)
}
