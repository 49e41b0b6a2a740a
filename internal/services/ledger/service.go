package ledger

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mcoot/betsim/internal/dependencies/clock"
	"github.com/mcoot/betsim/internal/dependencies/random"
	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

const (
	// IDLength is the length of generated player ids
	IDLength = 8
	// maxIDAttempts bounds regeneration on id collisions
	maxIDAttempts = 100
)

// ErrIDExhausted is returned when no unused player id could be generated
var ErrIDExhausted = errors.New("could not generate a unique player id")

// UpdateParams lists the fields to change. Nil fields are left untouched.
type UpdateParams struct {
	Name    *string
	Balance *decimal.Decimal
}

// Service provides CRUD and lookup over player records. Every mutation loads the whole
// collection, changes it and saves it back.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new ledger Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Add creates a player with a fresh id and persists it
func (s *Service) Add(ctx context.Context, name string, balance decimal.Decimal) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	if balance.IsNegative() {
		return nil, model.ErrNegativeBalance
	}

	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range players {
		if p.NameMatches(name) {
			return nil, model.ErrDuplicateName
		}
	}

	id, err := s.newID(players)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:             id,
		Name:           name,
		AccountBalance: balance,
		CreatedAt:      s.clock.Now(),
		History:        []string{},
	}
	players[id] = player

	if err := s.save(ctx, players, id); err != nil {
		return nil, err
	}

	s.logger.Info("player added",
		slog.String("player_id", string(id)),
		slog.String("balance", balance.String()),
	)
	return player, nil
}

// GetAll returns every player, oldest first
func (s *Service) GetAll(ctx context.Context) ([]*model.Player, error) {
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return inCreationOrder(players), nil
}

// GetByName finds a player by case-insensitive name with a linear scan. Intended for
// administrative lookups, not hot paths.
func (s *Service) GetByName(ctx context.Context, name string) (*model.Player, error) {
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range inCreationOrder(players) {
		if p.NameMatches(name) {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

// GetByID finds a player by binary search over the records sorted by id. The sort works on
// a private slice; the loaded collection is not reordered.
func (s *Service) GetByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}

	sorted := make([]*model.Player, 0, len(players))
	for _, p := range players {
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b *model.Player) int {
		return cmp.Compare(a.ID, b.ID)
	})

	idx, found := slices.BinarySearchFunc(sorted, id, func(p *model.Player, target model.PlayerID) int {
		return cmp.Compare(p.ID, target)
	})
	if !found {
		return nil, model.ErrPlayerNotFound
	}
	return sorted[idx], nil
}

// Update applies the provided fields to a player. A negative balance is rejected before
// anything is written; an empty name is ignored.
func (s *Service) Update(ctx context.Context, id model.PlayerID, params UpdateParams) (*model.Player, error) {
	if params.Balance != nil && params.Balance.IsNegative() {
		return nil, model.ErrNegativeBalance
	}

	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}

	player, ok := players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	if params.Name != nil {
		if name := strings.TrimSpace(*params.Name); name != "" {
			player.Name = name
		}
	}
	if params.Balance != nil {
		player.AccountBalance = *params.Balance
	}

	if err := s.save(ctx, players, id); err != nil {
		return nil, err
	}

	s.logger.Info("player updated",
		slog.String("player_id", string(id)),
		slog.String("balance", player.AccountBalance.String()),
	)
	return player, nil
}

// Delete removes a player and returns the removed record
func (s *Service) Delete(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return nil, err
	}

	player, ok := players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	delete(players, id)

	if err := s.save(ctx, players, id); err != nil {
		return nil, err
	}

	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return player, nil
}

func (s *Service) newID(players model.Collection) (model.PlayerID, error) {
	for range maxIDAttempts {
		id := model.PlayerID(s.random.String(IDLength, random.Alphanumeric))
		if len(id) != IDLength {
			continue
		}
		if _, taken := players[id]; !taken {
			return id, nil
		}
		s.logger.Debug("player id collision", slog.String("player_id", string(id)))
	}
	return "", ErrIDExhausted
}

func (s *Service) save(ctx context.Context, players model.Collection, id model.PlayerID) error {
	if err := s.storage.SavePlayers(ctx, players); err != nil {
		s.logger.Error("failed to save players",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

func inCreationOrder(players model.Collection) []*model.Player {
	out := make([]*model.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *model.Player) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
