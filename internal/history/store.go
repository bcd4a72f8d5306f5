// Package history keeps the most recent omnibox classifications per client so
// a host can offer them as suggestions.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "omnibox:history:"

// Entry is one recorded classification.
type Entry struct {
	ID           uuid.UUID `json:"id"`
	Input        string    `json:"input"`
	Kind         string    `json:"kind"`
	Target       string    `json:"target"`
	Engine       string    `json:"engine"`
	WasDirectURL bool      `json:"wasDirectUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store records and lists classifications per client.
type Store interface {
	Record(ctx context.Context, clientID string, entry Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, clientID string, limit int) ([]Entry, error)
	Ping(ctx context.Context) error
}

// RedisStore keeps a capped list per client.
type RedisStore struct {
	rdb        *redis.Client
	maxEntries int
	ttl        time.Duration
}

// NewRedisStore wraps rdb. maxEntries caps each client's list; ttl expires
// idle lists (zero keeps them forever).
func NewRedisStore(rdb *redis.Client, maxEntries int, ttl time.Duration) *RedisStore {
	if maxEntries <= 0 {
		maxEntries = 50
	}
	return &RedisStore{rdb: rdb, maxEntries: maxEntries, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	cli := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

func (s *RedisStore) key(clientID string) string { return keyPrefix + clientID }

// Record pushes entry to the head of the client's list and trims the tail.
func (s *RedisStore) Record(ctx context.Context, clientID string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := s.key(clientID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.maxEntries-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Undecodable entries are skipped.
func (s *RedisStore) Recent(ctx context.Context, clientID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.maxEntries {
		limit = s.maxEntries
	}

	raw, err := s.rdb.LRange(ctx, s.key(clientID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// NopStore is used when no history backend is configured.
type NopStore struct{}

func (NopStore) Record(context.Context, string, Entry) error { return nil }
func (NopStore) Recent(context.Context, string, int) ([]Entry, error) {
	return []Entry{}, nil
}
func (NopStore) Ping(context.Context) error { return nil }

var (
	_ Store = (*RedisStore)(nil)
	_ Store = NopStore{}
)
