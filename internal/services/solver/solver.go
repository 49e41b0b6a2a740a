// Package solver finds the best combination of bet sizes that fits a balance.
package solver

import (
	"github.com/mcoot/betsim/internal/model"
)

// Solve returns the subsequence of options with the largest sum not exceeding balance.
//
// The search is a depth-first walk over the options in input order that tries including
// each option before skipping it. A node replaces the current best only on strict
// improvement, so among equal sums the first subsequence reached wins. When nothing fits
// the result is an empty Solution with no error.
func Solve(balance int, options []int) (model.Solution, error) {
	if err := validate(balance, options); err != nil {
		return model.Solution{}, err
	}

	s := newSearch(balance, options)
	s.explore(0, 0)

	return model.Solution{Bets: s.best, Total: s.bestTotal}, nil
}

func validate(balance int, options []int) error {
	if balance < 0 {
		return model.ErrNegativeBalance
	}
	seen := make(map[int]struct{}, len(options))
	for _, opt := range options {
		if opt <= 0 {
			return model.ErrInvalidBetOptions
		}
		if _, dup := seen[opt]; dup {
			return model.ErrInvalidBetOptions
		}
		seen[opt] = struct{}{}
	}
	return nil
}

type search struct {
	balance int
	options []int
	// remaining[i] is the sum of the options in options[i:] that fit the balance,
	// capped at the balance
	remaining []int

	path      []int
	best      []int
	bestTotal int
}

func newSearch(balance int, options []int) *search {
	remaining := make([]int, len(options)+1)
	for i := len(options) - 1; i >= 0; i-- {
		switch opt := options[i]; {
		case opt > balance:
			remaining[i] = remaining[i+1]
		case opt > balance-remaining[i+1]:
			remaining[i] = balance
		default:
			remaining[i] = remaining[i+1] + opt
		}
	}
	return &search{
		balance:   balance,
		options:   options,
		remaining: remaining,
		path:      make([]int, 0, len(options)),
		best:      []int{},
	}
}

// explore visits the node where options[:i] have been decided and path sums to sum.
// sum never exceeds the balance or bestTotal, so the differences below cannot overflow.
func (s *search) explore(i int, sum int) {
	if sum > s.bestTotal {
		s.bestTotal = sum
		s.best = append(s.best[:0], s.path...)
	}

	if s.bestTotal == s.balance || i == len(s.options) {
		return
	}
	// Nothing below this node can strictly beat the best.
	if s.remaining[i] <= s.bestTotal-sum {
		return
	}

	if opt := s.options[i]; opt <= s.balance-sum {
		s.path = append(s.path, opt)
		s.explore(i+1, sum+opt)
		s.path = s.path[:len(s.path)-1]
	}
	s.explore(i+1, sum)
}
