package queue

import (
	"context"
	"log/slog"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Service is a FIFO waiting queue of player ids. Entries are opaque strings and may repeat.
// Each mutation loads the whole queue document and writes it back.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new queue Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Enqueue appends an id to the back of the queue
func (s *Service) Enqueue(ctx context.Context, id string) error {
	queue, err := s.storage.LoadQueue(ctx)
	if err != nil {
		return err
	}

	queue = append(queue, id)

	if err := s.save(ctx, queue); err != nil {
		return err
	}
	s.logger.Info("enqueued", slog.String("player_id", id), slog.Int("length", len(queue)))
	return nil
}

// Dequeue removes and returns the front of the queue
func (s *Service) Dequeue(ctx context.Context) (string, error) {
	queue, err := s.storage.LoadQueue(ctx)
	if err != nil {
		return "", err
	}
	if len(queue) == 0 {
		return "", model.ErrEmptyQueue
	}

	front := queue[0]
	queue = queue[1:]

	if err := s.save(ctx, queue); err != nil {
		return "", err
	}
	s.logger.Info("dequeued", slog.String("player_id", front), slog.Int("length", len(queue)))
	return front, nil
}

// Peek returns the front of the queue without removing it
func (s *Service) Peek(ctx context.Context) (string, error) {
	queue, err := s.storage.LoadQueue(ctx)
	if err != nil {
		return "", err
	}
	if len(queue) == 0 {
		return "", model.ErrEmptyQueue
	}
	return queue[0], nil
}

// GetAll returns the queue, front first
func (s *Service) GetAll(ctx context.Context) ([]string, error) {
	return s.storage.LoadQueue(ctx)
}

// Clear empties the queue
func (s *Service) Clear(ctx context.Context) error {
	if err := s.save(ctx, []string{}); err != nil {
		return err
	}
	s.logger.Info("queue cleared")
	return nil
}

// Len returns the number of waiting entries
func (s *Service) Len(ctx context.Context) (int, error) {
	queue, err := s.storage.LoadQueue(ctx)
	if err != nil {
		return 0, err
	}
	return len(queue), nil
}

// IsEmpty reports whether nobody is waiting
func (s *Service) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.Len(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *Service) save(ctx context.Context, queue []string) error {
	if err := s.storage.SaveQueue(ctx, queue); err != nil {
		s.logger.Error("failed to save queue", slog.String("error", err.Error()))
		return err
	}
	return nil
}
