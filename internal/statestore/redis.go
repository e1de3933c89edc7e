package statestore

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"puntoventa/backend/internal/domain"
)

const redisSnapshotKey = "puntoventa:ledger:snapshot"

type RedisStore struct {
	client *redis.Client
}

func NewRedis(addr string, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	// No TTL: the snapshot is the system of record until the next save.
	return s.client.Set(ctx, redisSnapshotKey, payload, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	val, err := s.client.Get(ctx, redisSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
