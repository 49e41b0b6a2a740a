package history

import (
	"context"
	"log/slog"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Service manages each player's bounded action history. The history is a stack: Push adds
// the newest entry and Pop removes it, while only the last model.MaxHistory entries survive.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new history Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Push records an action for the player, evicting the oldest entries past the cap
func (s *Service) Push(ctx context.Context, id model.PlayerID, action string) error {
	players, player, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	player.AppendHistory(action)

	if err := s.save(ctx, players, id); err != nil {
		return err
	}
	s.logger.Debug("history pushed",
		slog.String("player_id", string(id)),
		slog.Int("entries", len(player.History)),
	)
	return nil
}

// Pop removes and returns the newest entry
func (s *Service) Pop(ctx context.Context, id model.PlayerID) (string, error) {
	players, player, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if len(player.History) == 0 {
		return "", model.ErrEmptyHistory
	}

	last := len(player.History) - 1
	action := player.History[last]
	player.History = player.History[:last]

	if err := s.save(ctx, players, id); err != nil {
		return "", err
	}
	s.logger.Debug("history popped", slog.String("player_id", string(id)))
	return action, nil
}

// Peek returns the newest entry without removing it
func (s *Service) Peek(ctx context.Context, id model.PlayerID) (string, error) {
	_, player, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if len(player.History) == 0 {
		return "", model.ErrEmptyHistory
	}
	return player.History[len(player.History)-1], nil
}

// GetAll returns the player's history, oldest first
func (s *Service) GetAll(ctx context.Context, id model.PlayerID) ([]string, error) {
	_, player, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(player.History))
	copy(out, player.History)
	return out, nil
}

// Clear drops every entry from the player's history
func (s *Service) Clear(ctx context.Context, id model.PlayerID) error {
	players, player, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	player.History = []string{}

	if err := s.save(ctx, players, id); err != nil {
		return err
	}
	s.logger.Info("history cleared", slog.String("player_id", string(id)))
	return nil
}

func (s *Service) load(ctx context.Context, id model.PlayerID) (model.Collection, *model.Player, error) {
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, nil, err
	}
	player, ok := players[id]
	if !ok {
		return nil, nil, model.ErrPlayerNotFound
	}
	return players, player, nil
}

func (s *Service) save(ctx context.Context, players model.Collection, id model.PlayerID) error {
	if err := s.storage.SavePlayers(ctx, players); err != nil {
		s.logger.Error("failed to save history",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
