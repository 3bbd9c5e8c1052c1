package repo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisSessionStorage struct {
	client *redis.Client
	log    *zap.SugaredLogger
	ttl    time.Duration
}

func NewSessionRedisStorage(client *redis.Client, log *zap.SugaredLogger, ttl time.Duration) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (r *RedisSessionStorage) GetUserIdBySession(ctx context.Context, sessionID string) (userID string, ok bool) {
	v, err := r.client.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Error(err)
		}
		return "", false
	}
	return v, true
}

func (r *RedisSessionStorage) StoreSession(ctx context.Context, sessionID string, userID string) {
	if err := r.client.Set(ctx, "session:"+sessionID, userID, r.ttl).Err(); err != nil {
		r.log.Error(err)
	}
}

func (r *RedisSessionStorage) DeleteSession(ctx context.Context, sessionID string) (ok bool) {
	deleted, err := r.client.Del(ctx, "session:"+sessionID).Result()
	if err != nil {
		r.log.Error(err)
		return false
	}
	return deleted > 0
}
