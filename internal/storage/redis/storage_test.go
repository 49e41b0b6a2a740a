package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.ContractSuite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Storage = s.storage
	s.Ctx = context.Background()
	s.WriteRawPlayers = func(data []byte) {
		s.Require().NoError(s.mini.Set(playersKey("betsim"), string(data)))
	}
	s.WriteRawQueue = func(data []byte) {
		s.Require().NoError(s.mini.Set(queueKey("betsim"), string(data)))
	}
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestDocumentsHaveNoTTL() {
	alice := storagetest.SamplePlayer("AAAA1111", "Alice", 10)
	s.Require().NoError(s.storage.SavePlayers(s.Ctx, model.Collection{alice.ID: alice}))
	s.Require().NoError(s.storage.SaveQueue(s.Ctx, []string{"AAAA1111"}))

	s.Zero(s.mini.TTL(playersKey("betsim")))
	s.Zero(s.mini.TTL(queueKey("betsim")))
}

func (s *StorageSuite) TestKeyPrefixIsolatesDocuments() {
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), Config{KeyPrefix: "other"})
	defer func() { _ = other.Close() }()

	s.Require().NoError(s.storage.SaveQueue(s.Ctx, []string{"A"}))

	queue, err := other.LoadQueue(s.Ctx)
	s.Require().NoError(err)
	s.Empty(queue)
	s.True(s.mini.Exists("betsim:queue"))
}

func (s *StorageSuite) TestUnreachableServerFailsWithIOError() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	s.mini.Close()

	_, err := New(cfg)
	s.ErrorIs(err, model.ErrIO)
}
