package storage

import (
	"context"
	"errors"
	"fmt"

	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ session.Storage = (*RedisStore)(nil)

// RedisStore persists session values as plain redis strings under prefix+key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	logrus.WithField("key", s.key(key)).Debug("Getting session value from redis")

	data, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", s.key(key)).Debug("Session value not found in redis")
			return "", false, nil
		}
		logrus.WithError(err).WithField("key", s.key(key)).Error("Failed to get session value from redis")
		return "", false, fmt.Errorf("%w (%w): %v", models.ErrStorageRead, models.ErrRedisGet, err)
	}

	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	err := s.client.Set(ctx, s.key(key), value, 0).Err()
	if err != nil {
		logrus.WithError(err).WithField("key", s.key(key)).Error("Failed to set session value in redis")
		return fmt.Errorf("%w (%w): %v", models.ErrStorageWrite, models.ErrRedisSet, err)
	}

	logrus.WithField("key", s.key(key)).Debug("Session value stored in redis")
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.key(key)).Err()
	if err != nil {
		logrus.WithError(err).WithField("key", s.key(key)).Error("Failed to delete session value from redis")
		return fmt.Errorf("%w (%w): %v", models.ErrStorageDelete, models.ErrRedisDelete, err)
	}

	return nil
}
