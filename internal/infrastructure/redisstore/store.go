// Package redisstore backs the persistent record store with Redis. Records
// are JSON documents without TTL; Redis persistence settings are the
// durability story, matching the engine's single-writer model.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
)

type Store struct {
	rdb       *redis.Client
	namespace string
}

func New(rdb *redis.Client, namespace string) *Store {
	return &Store{rdb: rdb, namespace: namespace}
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), b, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

var _ repository.Store = (*Store)(nil)
