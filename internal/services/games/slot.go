package games

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mcoot/betsim/internal/dependencies/random"
	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/history"
	"github.com/mcoot/betsim/internal/services/ledger"
)

// SlotPrefix starts every slot machine history entry
const SlotPrefix = "slot:"

// Symbols are the faces on each reel
var Symbols = []string{"cherry", "lemon", "bell", "star", "seven"}

// SlotResult describes one spin
type SlotResult struct {
	Reels   [3]string
	Won     bool
	Delta   decimal.Decimal
	Balance decimal.Decimal
	Entry   string
}

// Slot is a three-reel slot machine. Three matching symbols pay the bet, anything else
// loses it.
type Slot struct {
	table
	random random.Random
}

// NewSlot creates a new Slot
func NewSlot(ledger *ledger.Service, history *history.Service, random random.Random, logger *slog.Logger) *Slot {
	return &Slot{
		table:  table{ledger: ledger, history: history, logger: logger},
		random: random,
	}
}

// Play spins the reels for the player
func (s *Slot) Play(ctx context.Context, id model.PlayerID, bet decimal.Decimal) (*SlotResult, error) {
	player, err := s.seat(ctx, id, bet)
	if err != nil {
		return nil, err
	}

	var reels [3]string
	for i := range reels {
		reels[i] = Symbols[s.random.Intn(len(Symbols))]
	}
	won := reels[0] == reels[1] && reels[1] == reels[2]

	delta := bet.Neg()
	if won {
		delta = bet
	}

	balance, entry, err := s.settle(ctx, player, delta, func(balance decimal.Decimal) string {
		return fmt.Sprintf("%s spin [%s] -> %s %s, balance %s",
			SlotPrefix, strings.Join(reels[:], "|"), outcome(won), bet, balance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("slot played",
		slog.String("player_id", string(id)),
		slog.Bool("won", won),
		slog.String("balance", balance.String()),
	)
	return &SlotResult{
		Reels:   reels,
		Won:     won,
		Delta:   delta,
		Balance: balance,
		Entry:   entry,
	}, nil
}
