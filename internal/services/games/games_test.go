package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betsim/internal/dependencies/mocks"
	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/history"
	"github.com/mcoot/betsim/internal/services/ledger"
	"github.com/mcoot/betsim/internal/storage/memory"
	"github.com/mcoot/betsim/internal/testutil"
)

var errNoInput = errors.New("no more guesses")

// scripted returns a guesser that replays guesses in order
func scripted(guesses ...int) Guesser {
	return GuesserFunc(func(ctx context.Context, round Round) (int, error) {
		if len(guesses) == 0 {
			return 0, errNoInput
		}
		n := guesses[0]
		guesses = guesses[1:]
		return n, nil
	})
}

type GamesSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	ledger  *ledger.Service
	history *history.Service
	slot    *Slot
	guess   *Guess
	player  *model.Player
	ctx     context.Context
}

func TestGamesSuite(t *testing.T) {
	suite.Run(t, new(GamesSuite))
}

func (s *GamesSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	clock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.ledger = ledger.New(store, clock, s.random, logger)
	s.history = history.New(store, logger)
	s.slot = NewSlot(s.ledger, s.history, s.random, logger)
	s.guess = NewGuess(s.ledger, s.history, s.random, logger)
	s.ctx = context.Background()

	s.random.QueueString("ABCD1234")
	player, err := s.ledger.Add(s.ctx, "Alice", decimal.NewFromInt(100))
	s.Require().NoError(err)
	s.player = player
}

func (s *GamesSuite) balance() decimal.Decimal {
	p, err := s.ledger.GetByID(s.ctx, s.player.ID)
	s.Require().NoError(err)
	return p.AccountBalance
}

func (s *GamesSuite) entries() []string {
	h, err := s.history.GetAll(s.ctx, s.player.ID)
	s.Require().NoError(err)
	return h
}

// Slot tests

func (s *GamesSuite) TestSlotWinPaysBet() {
	s.random.QueueIntn(2, 2, 2)

	result, err := s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(10))
	s.Require().NoError(err)

	s.True(result.Won)
	s.Equal([3]string{"bell", "bell", "bell"}, result.Reels)
	s.Equal("110", s.balance().String())
	s.Equal([]string{"slot: spin [bell|bell|bell] -> won 10, balance 110"}, s.entries())
}

func (s *GamesSuite) TestSlotLossTakesBet() {
	s.random.QueueIntn(0, 1, 2)

	result, err := s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(10))
	s.Require().NoError(err)

	s.False(result.Won)
	s.Equal("-10", result.Delta.String())
	s.Equal("90", s.balance().String())
	s.Equal([]string{"slot: spin [cherry|lemon|bell] -> lost 10, balance 90"}, s.entries())
}

func (s *GamesSuite) TestSlotTwoMatchingLoses() {
	s.random.QueueIntn(4, 4, 3)

	result, err := s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(10))
	s.Require().NoError(err)
	s.False(result.Won)
}

func (s *GamesSuite) TestSlotWholeBalanceCanBeLost() {
	s.random.QueueIntn(0, 1, 2)

	_, err := s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(100))
	s.Require().NoError(err)
	s.True(s.balance().IsZero())
}

func (s *GamesSuite) TestSlotRejectsBadBets() {
	_, err := s.slot.Play(s.ctx, s.player.ID, decimal.Zero)
	s.ErrorIs(err, model.ErrInvalidBet)

	_, err = s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(-5))
	s.ErrorIs(err, model.ErrInvalidBet)

	_, err = s.slot.Play(s.ctx, s.player.ID, decimal.NewFromInt(101))
	s.ErrorIs(err, model.ErrInsufficientBalance)
	s.ErrorIs(err, model.ErrValidation)

	s.Equal("100", s.balance().String())
	s.Empty(s.entries())
}

func (s *GamesSuite) TestSlotUnknownPlayer() {
	_, err := s.slot.Play(s.ctx, "NOPE0000", decimal.NewFromInt(1))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Guess tests

func (s *GamesSuite) TestGuessWinPaysFourTimes() {
	s.random.QueueIntn(6)

	result, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 10, NewBisectGuesser())
	s.Require().NoError(err)

	s.True(result.Won)
	s.Equal(7, result.Secret)
	s.Equal(4, result.Attempts)
	s.Equal("140", s.balance().String())
	s.Equal([]string{"guess: range 1-10, bet 10, secret 7 -> won 40, balance 140"}, s.entries())
}

func (s *GamesSuite) TestGuessLossAfterAllAttempts() {
	s.random.QueueIntn(6)

	result, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 10, scripted(1, 2, 3, 4, 5))
	s.Require().NoError(err)

	s.False(result.Won)
	s.Equal(4, result.Attempts)
	s.Equal("90", s.balance().String())
	s.Equal([]string{"guess: range 1-10, bet 10, secret 7 -> lost 10, balance 90"}, s.entries())
}

func (s *GamesSuite) TestGuessOutOfRangeIsNotCounted() {
	s.random.QueueIntn(6)

	result, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 10, scripted(0, 11, -3, 7))
	s.Require().NoError(err)

	s.True(result.Won)
	s.Equal(1, result.Attempts)
}

func (s *GamesSuite) TestGuessFeedback() {
	s.random.QueueIntn(6)
	var seen []Feedback
	guesses := []int{3, 9, 7}
	guesser := GuesserFunc(func(ctx context.Context, round Round) (int, error) {
		seen = append(seen, round.Feedback)
		n := guesses[0]
		guesses = guesses[1:]
		return n, nil
	})

	_, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 10, guesser)
	s.Require().NoError(err)
	s.Equal([]Feedback{FeedbackNone, FeedbackHigher, FeedbackLower}, seen)
}

func (s *GamesSuite) TestGuessAbandonedLeavesBalance() {
	s.random.QueueIntn(6)

	_, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 10, scripted(1))
	s.ErrorIs(err, errNoInput)
	s.Equal("100", s.balance().String())
	s.Empty(s.entries())
}

func (s *GamesSuite) TestGuessStopsWhenContextIsDone() {
	s.random.QueueIntn(6)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	calls := 0
	guesser := GuesserFunc(func(ctx context.Context, round Round) (int, error) {
		calls++
		if calls == 5 {
			cancel()
		}
		return 0, nil
	})

	_, err := s.guess.Play(ctx, s.player.ID, decimal.NewFromInt(10), 10, guesser)
	s.ErrorIs(err, context.Canceled)
	s.Equal(5, calls)
	s.Equal("100", s.balance().String())
	s.Empty(s.entries())
}

func (s *GamesSuite) TestGuessRejectsBadInput() {
	_, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(10), 1, NewBisectGuesser())
	s.ErrorIs(err, model.ErrInvalidRange)

	_, err = s.guess.Play(s.ctx, s.player.ID, decimal.Zero, 10, NewBisectGuesser())
	s.ErrorIs(err, model.ErrInvalidBet)

	_, err = s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(500), 10, NewBisectGuesser())
	s.ErrorIs(err, model.ErrInsufficientBalance)

	_, err = s.guess.Play(s.ctx, "NOPE0000", decimal.NewFromInt(1), 10, NewBisectGuesser())
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *GamesSuite) TestBisectAlwaysWins() {
	const rangeMax = 100
	for secret := 1; secret <= rangeMax; secret++ {
		s.random.QueueIntn(secret - 1)

		result, err := s.guess.Play(s.ctx, s.player.ID, decimal.NewFromInt(1), rangeMax, NewBisectGuesser())
		s.Require().NoError(err)
		s.True(result.Won, "secret %d", secret)
		s.LessOrEqual(result.Attempts, OptimalAttempts(rangeMax))
	}
}

func TestOptimalAttempts(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
		{10, 4},
		{100, 7},
		{1000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OptimalAttempts(tt.n), "n=%d", tt.n)
	}
}
