package games

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mcoot/betsim/internal/dependencies/random"
	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/history"
	"github.com/mcoot/betsim/internal/services/ledger"
)

const (
	// GuessPrefix starts every guessing game history entry
	GuessPrefix = "guess:"
	// GuessPayout multiplies the bet on a correct guess
	GuessPayout = 4
)

// OptimalAttempts returns the worst-case number of guesses needed to find a secret in
// [1, n] by always guessing the midpoint and continuing in the larger half.
func OptimalAttempts(n int) int {
	if n < 1 {
		return 0
	}
	low, high, attempts := 1, n, 1
	for high > low {
		mid := (low + high) / 2
		if mid-low >= high-mid {
			high = mid - 1
		} else {
			low = mid + 1
		}
		attempts++
	}
	return attempts
}

// GuessResult describes one round of the guessing game
type GuessResult struct {
	Secret   int
	Won      bool
	Attempts int
	Delta    decimal.Decimal
	Balance  decimal.Decimal
	Entry    string
}

// Guess is the number guessing game. The player gets OptimalAttempts(rangeMax) tries to
// find a secret in [1, rangeMax]; a hit pays GuessPayout times the bet.
type Guess struct {
	table
	random random.Random
}

// NewGuess creates a new Guess
func NewGuess(ledger *ledger.Service, history *history.Service, random random.Random, logger *slog.Logger) *Guess {
	return &Guess{
		table:  table{ledger: ledger, history: history, logger: logger},
		random: random,
	}
}

// Play runs one round, asking guesser for each guess. Guesses outside the range are
// reported back and do not use up an attempt. If guesser fails or ctx is done the round is
// abandoned and the balance is left alone.
func (g *Guess) Play(
	ctx context.Context,
	id model.PlayerID,
	bet decimal.Decimal,
	rangeMax int,
	guesser Guesser,
) (*GuessResult, error) {
	if rangeMax < 2 {
		return nil, model.ErrInvalidRange
	}
	player, err := g.seat(ctx, id, bet)
	if err != nil {
		return nil, err
	}

	secret := 1 + g.random.Intn(rangeMax)
	maxAttempts := OptimalAttempts(rangeMax)

	round := Round{Low: 1, High: rangeMax, MaxAttempts: maxAttempts, Feedback: FeedbackNone}
	won := false
	for round.Attempt < maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := guesser.Guess(ctx, round)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > rangeMax {
			round.Feedback = FeedbackOutOfRange
			continue
		}

		round.Attempt++
		round.Last = n
		if n == secret {
			won = true
			break
		}
		if n < secret {
			round.Feedback = FeedbackHigher
		} else {
			round.Feedback = FeedbackLower
		}
	}

	delta := bet.Neg()
	if won {
		delta = bet.Mul(decimal.NewFromInt(GuessPayout))
	}

	balance, entry, err := g.settle(ctx, player, delta, func(balance decimal.Decimal) string {
		return fmt.Sprintf("%s range 1-%d, bet %s, secret %d -> %s %s, balance %s",
			GuessPrefix, rangeMax, bet, secret, outcome(won), delta.Abs(), balance)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("guess played",
		slog.String("player_id", string(id)),
		slog.Bool("won", won),
		slog.Int("attempts", round.Attempt),
		slog.String("balance", balance.String()),
	)
	return &GuessResult{
		Secret:   secret,
		Won:      won,
		Attempts: round.Attempt,
		Delta:    delta,
		Balance:  balance,
		Entry:    entry,
	}, nil
}
