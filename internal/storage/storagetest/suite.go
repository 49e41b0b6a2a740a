// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// ContractSuite is embedded by backend test suites. SetupTest of the embedding suite must
// set Storage and the raw document writers.
type ContractSuite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context

	// WriteRawPlayers and WriteRawQueue store bytes as the document verbatim
	WriteRawPlayers func(data []byte)
	WriteRawQueue   func(data []byte)
}

// SamplePlayer builds a player with a deterministic timestamp
func SamplePlayer(id, name string, balance int64) *model.Player {
	return &model.Player{
		ID:             model.PlayerID(id),
		Name:           name,
		AccountBalance: decimal.NewFromInt(balance),
		CreatedAt:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		History:        []string{},
	}
}

func (s *ContractSuite) requirePlayerEqual(expected, actual *model.Player) {
	s.Require().NotNil(actual)
	s.Equal(expected.ID, actual.ID)
	s.Equal(expected.Name, actual.Name)
	s.True(expected.AccountBalance.Equal(actual.AccountBalance),
		"balance %s != %s", expected.AccountBalance, actual.AccountBalance)
	s.True(expected.CreatedAt.Equal(actual.CreatedAt))
	s.Equal(expected.History, actual.History)
}

// Players document

func (s *ContractSuite) TestLoadPlayersWhenMissingIsEmpty() {
	players, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(players)
	s.Empty(players)
}

func (s *ContractSuite) TestSaveAndLoadPlayers() {
	alice := SamplePlayer("AAAA1111", "Alice", 100)
	alice.AccountBalance = decimal.RequireFromString("12.75")
	alice.History = []string{"one", "two"}
	bob := SamplePlayer("BBBB2222", "Bob", 0)

	err := s.Storage.SavePlayers(s.Ctx, model.Collection{alice.ID: alice, bob.ID: bob})
	s.Require().NoError(err)

	players, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
	s.requirePlayerEqual(alice, players[alice.ID])
	s.requirePlayerEqual(bob, players[bob.ID])
}

func (s *ContractSuite) TestSavePlayersOverwrites() {
	alice := SamplePlayer("AAAA1111", "Alice", 100)
	bob := SamplePlayer("BBBB2222", "Bob", 50)
	s.Require().NoError(s.Storage.SavePlayers(s.Ctx, model.Collection{alice.ID: alice, bob.ID: bob}))
	s.Require().NoError(s.Storage.SavePlayers(s.Ctx, model.Collection{bob.ID: bob}))

	players, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Contains(players, bob.ID)
}

func (s *ContractSuite) TestSaveOfLoadedPlayersIsIdempotent() {
	alice := SamplePlayer("AAAA1111", "Alice", 100)
	alice.History = []string{"bet 10"}
	s.Require().NoError(s.Storage.SavePlayers(s.Ctx, model.Collection{alice.ID: alice}))

	first, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.Storage.SavePlayers(s.Ctx, first))

	second, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(second, len(first))
	for id, p := range first {
		s.requirePlayerEqual(p, second[id])
	}
}

func (s *ContractSuite) TestLoadedPlayersAreDetached() {
	alice := SamplePlayer("AAAA1111", "Alice", 100)
	s.Require().NoError(s.Storage.SavePlayers(s.Ctx, model.Collection{alice.ID: alice}))

	players, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	players[alice.ID].Name = "Mallory"

	reloaded, err := s.Storage.LoadPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Alice", reloaded[alice.ID].Name)
}

func (s *ContractSuite) TestLoadCorruptPlayersFails() {
	s.WriteRawPlayers([]byte(`{"AAAA1111": {"id": "AAAA1111", "name": `))

	_, err := s.Storage.LoadPlayers(s.Ctx)
	s.ErrorIs(err, model.ErrIO)
}

func (s *ContractSuite) TestLoadWrongShapePlayersFails() {
	s.WriteRawPlayers([]byte(`["AAAA1111"]`))

	_, err := s.Storage.LoadPlayers(s.Ctx)
	s.ErrorIs(err, model.ErrIO)
}

// Queue document

func (s *ContractSuite) TestLoadQueueWhenMissingIsEmpty() {
	queue, err := s.Storage.LoadQueue(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(queue)
	s.Empty(queue)
}

func (s *ContractSuite) TestSaveAndLoadQueuePreservesOrderAndDuplicates() {
	s.Require().NoError(s.Storage.SaveQueue(s.Ctx, []string{"B", "A", "B"}))

	queue, err := s.Storage.LoadQueue(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"B", "A", "B"}, queue)
}

func (s *ContractSuite) TestSaveEmptyQueue() {
	s.Require().NoError(s.Storage.SaveQueue(s.Ctx, []string{"A"}))
	s.Require().NoError(s.Storage.SaveQueue(s.Ctx, nil))

	queue, err := s.Storage.LoadQueue(s.Ctx)
	s.Require().NoError(err)
	s.Empty(queue)
}

func (s *ContractSuite) TestLoadCorruptQueueFails() {
	s.WriteRawQueue([]byte(`{"head": "A"}`))

	_, err := s.Storage.LoadQueue(s.Ctx)
	s.ErrorIs(err, model.ErrIO)
}
