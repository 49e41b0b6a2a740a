package games

import "context"

// Feedback tells a guesser how its previous guess compared to the secret
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackHigher
	FeedbackLower
	FeedbackOutOfRange
)

func (f Feedback) String() string {
	switch f {
	case FeedbackHigher:
		return "higher"
	case FeedbackLower:
		return "lower"
	case FeedbackOutOfRange:
		return "out of range"
	default:
		return ""
	}
}

// Round is the state shown to a guesser before each guess
type Round struct {
	Low, High   int
	Attempt     int // counted guesses so far
	MaxAttempts int
	Last        int // last counted guess, 0 before the first
	Feedback    Feedback
}

// Guesser supplies guesses for the guessing game
type Guesser interface {
	Guess(ctx context.Context, round Round) (int, error)
}

// GuesserFunc adapts a function to the Guesser interface
type GuesserFunc func(ctx context.Context, round Round) (int, error)

func (f GuesserFunc) Guess(ctx context.Context, round Round) (int, error) {
	return f(ctx, round)
}

// BisectGuesser plays the midpoint strategy and always finds the secret within
// OptimalAttempts guesses.
type BisectGuesser struct {
	low, high int
}

// NewBisectGuesser creates a BisectGuesser
func NewBisectGuesser() *BisectGuesser {
	return &BisectGuesser{}
}

func (b *BisectGuesser) Guess(ctx context.Context, round Round) (int, error) {
	switch round.Feedback {
	case FeedbackNone:
		b.low, b.high = round.Low, round.High
	case FeedbackHigher:
		b.low = round.Last + 1
	case FeedbackLower:
		b.high = round.Last - 1
	}
	return (b.low + b.high) / 2, nil
}
