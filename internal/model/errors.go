package model

import (
	"errors"
	"fmt"
)

// Error kinds. Callers should match these with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmptyHistory   = errors.New("history is empty")
	ErrEmptyQueue     = errors.New("queue is empty")
	ErrIO             = errors.New("storage error")
)

// Validation errors
var (
	ErrNegativeBalance     = fmt.Errorf("%w: balance cannot be negative", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrDuplicateName       = fmt.Errorf("%w: a player with that name already exists", ErrValidation)
	ErrInvalidBet          = fmt.Errorf("%w: bet must be greater than zero", ErrValidation)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance for that bet", ErrValidation)
	ErrInvalidBetOptions   = fmt.Errorf("%w: bet options must be distinct positive integers", ErrValidation)
	ErrInvalidRange        = fmt.Errorf("%w: range must be at least 2", ErrValidation)
)
