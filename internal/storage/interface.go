package storage

import (
	"context"

	"github.com/mcoot/betsim/internal/model"
)

// Storage persists the two betsim documents: the player collection and the waiting queue.
// Every save replaces the whole document. Implementations do not lock across a
// load/modify/save sequence.
type Storage interface {
	// Player collection
	LoadPlayers(ctx context.Context) (model.Collection, error)
	SavePlayers(ctx context.Context, players model.Collection) error

	// Waiting queue
	LoadQueue(ctx context.Context) ([]string, error)
	SaveQueue(ctx context.Context, queue []string) error
}
