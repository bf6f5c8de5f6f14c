// Package redisstore keeps the serialized session in Redis so several client
// processes can share one login.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-calendar-client/token"
	"github.com/redis/go-redis/v9"
)

var _ token.Store = (*Store)(nil)

type Store struct {
	client *redis.Client
	prefix string
	key    string
}

// Dial connects to addr and verifies the connection with a ping.
func Dial(ctx context.Context, addr, password, key string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[redisstore Dial] ping %s: %w", addr, err)
	}
	return New(client, key), nil
}

// New creates a Redis-backed store around an existing client.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = token.DefaultKey
	}
	return &Store{
		client: client,
		prefix: "calendar:",
		key:    key,
	}
}

// Key is the full Redis key the value lives under.
func (s *Store) Key() string {
	return s.prefix + s.key
}

func (s *Store) Save(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, s.Key(), value, 0).Err(); err != nil {
		return fmt.Errorf("[redisstore Save] %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, s.Key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[redisstore Load] %w", err)
	}
	return val, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.Key()).Err(); err != nil {
		return fmt.Errorf("[redisstore Clear] %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
