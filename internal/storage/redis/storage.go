package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. Each document is
// stored whole under its own key.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, storage.IOError("connect to redis", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) LoadPlayers(ctx context.Context) (model.Collection, error) {
	data, err := s.get(ctx, playersKey(s.cfg.KeyPrefix))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.Collection{}, nil
	}
	return storage.DecodePlayers(data)
}

func (s *Storage) SavePlayers(ctx context.Context, players model.Collection) error {
	data, err := storage.EncodePlayers(players)
	if err != nil {
		return err
	}
	return s.set(ctx, playersKey(s.cfg.KeyPrefix), data)
}

// Queue operations

func (s *Storage) LoadQueue(ctx context.Context) ([]string, error) {
	data, err := s.get(ctx, queueKey(s.cfg.KeyPrefix))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []string{}, nil
	}
	return storage.DecodeQueue(data)
}

func (s *Storage) SaveQueue(ctx context.Context, queue []string) error {
	data, err := storage.EncodeQueue(queue)
	if err != nil {
		return err
	}
	return s.set(ctx, queueKey(s.cfg.KeyPrefix), data)
}

// get returns nil data when the key does not exist
func (s *Storage) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, storage.IOError("get "+key, err)
	}
	return data, nil
}

func (s *Storage) set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return storage.IOError("set "+key, err)
	}
	return nil
}
