// Package games implements the slot machine and number guessing games. Both move balances
// through the ledger and record each play in the player's history.
package games

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/history"
	"github.com/mcoot/betsim/internal/services/ledger"
)

// table holds what every game needs to take a bet and pay out
type table struct {
	ledger  *ledger.Service
	history *history.Service
	logger  *slog.Logger
}

// seat loads the player and checks the bet against their balance
func (t *table) seat(ctx context.Context, id model.PlayerID, bet decimal.Decimal) (*model.Player, error) {
	if !bet.IsPositive() {
		return nil, model.ErrInvalidBet
	}
	player, err := t.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bet.GreaterThan(player.AccountBalance) {
		return nil, model.ErrInsufficientBalance
	}
	return player, nil
}

// settle applies delta to the player's balance and records the play. describe receives
// the new balance and returns the history entry.
func (t *table) settle(
	ctx context.Context,
	player *model.Player,
	delta decimal.Decimal,
	describe func(balance decimal.Decimal) string,
) (decimal.Decimal, string, error) {
	balance := player.AccountBalance.Add(delta)
	if _, err := t.ledger.Update(ctx, player.ID, ledger.UpdateParams{Balance: &balance}); err != nil {
		return decimal.Decimal{}, "", err
	}

	entry := describe(balance)
	if err := t.history.Push(ctx, player.ID, entry); err != nil {
		// The balance change is already persisted.
		t.logger.Error("failed to record play",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)
		return balance, entry, err
	}
	return balance, entry, nil
}

func outcome(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}
