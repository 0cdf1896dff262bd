package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"guardreport/internal/logger"
	"guardreport/pkg/models"
)

// Config configures the Redis event store.
type Config struct {
	Addr         string
	Password     string
	DB           int
	Key          string
	QueryTimeout time.Duration
}

// Store reads security events from a Redis sorted set whose members are
// JSON events scored by unix timestamp.
type Store struct {
	client       *redis.Client
	key          string
	queryTimeout time.Duration
}

// NewStore creates a Redis event store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Store{
		client:       client,
		key:          cfg.Key,
		queryTimeout: cfg.QueryTimeout,
	}, nil
}

// Fetch returns all events whose timestamp falls in [start, end] inclusive.
// The query runs under the configured timeout; any store failure is
// reported as models.ErrDataUnavailable.
func (s *Store) Fetch(ctx context.Context, start, end time.Time) ([]models.SecurityEvent, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	raw, err := s.client.ZRangeByScore(qctx, s.key, &redis.ZRangeBy{
		Min: strconv.FormatInt(start.Unix(), 10),
		Max: strconv.FormatInt(end.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: zrangebyscore %s: %v", models.ErrDataUnavailable, s.key, err)
	}

	events := make([]models.SecurityEvent, 0, len(raw))
	for _, member := range raw {
		var ev models.SecurityEvent
		if err := json.Unmarshal([]byte(member), &ev); err != nil {
			logger.Warnf("Skipping undecodable event record: %v", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
