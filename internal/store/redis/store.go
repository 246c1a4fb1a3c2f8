// Package redis implements the seen-offer store on a Redis sorted set.
package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set holding the fingerprints.
const DefaultKey = "tenderwatch:seen"

// Config captures the parameters for the Redis-backed seen store.
type Config struct {
	// URL is a redis:// connection string.
	URL string `mapstructure:"url"`
	// Key overrides the sorted-set key; empty means DefaultKey.
	Key string `mapstructure:"key"`
	// Capacity caps how many fingerprints are retained.
	Capacity int `mapstructure:"capacity"`
}

// Store keeps fingerprints in a sorted set scored by insertion order, so a
// rank-based trim drops the oldest entries once capacity is exceeded.
type Store struct {
	client   *redis.Client
	key      string
	capacity int
}

// New parses the URL, verifies connectivity and returns the store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("redis store capacity must be > 0")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", cfg.URL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key, capacity: cfg.Capacity}, nil
}

// Load returns the fingerprints in insertion order.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}
	return ids, nil
}

// Save rewrites the set from the given ordered fingerprints and trims it
// to the most recently added capacity entries.
func (s *Store) Save(ctx context.Context, ids []string) error {
	members := make([]redis.Z, len(ids))
	for i, id := range ids {
		members[i] = redis.Z{Score: float64(i), Member: id}
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, s.key, members...)
	}
	pipe.ZRemRangeByRank(ctx, s.key, 0, int64(-s.capacity-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save seen set: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
