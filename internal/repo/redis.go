package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisSequenceRepo keeps one integer key per date and relies on INCR for
// atomicity, so any number of scheduler processes can share it.
type redisSequenceRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisSequenceRepo constructs a SequenceRepo on top of a Redis client.
// Keys are "<keyPrefix>YYYYMMDD"; an empty keyPrefix defaults to "trip:seq:".
// Persistence across restarts is whatever the Redis deployment provides
// (AOF/RDB), so production setups should enable it.
func NewRedisSequenceRepo(client *redis.Client, keyPrefix string) SequenceRepo {
	if keyPrefix == "" {
		keyPrefix = "trip:seq:"
	}
	return &redisSequenceRepo{client: client, prefix: keyPrefix}
}

func (r *redisSequenceRepo) key(date time.Time) string {
	return r.prefix + sequenceKey(date)
}

// Current returns the stored counter, treating a missing key as zero.
func (r *redisSequenceRepo) Current(ctx context.Context, date time.Time) (int, error) {
	n, err := r.client.Get(ctx, r.key(date)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("repo.RedisSequenceRepo.Current: %w", err)
	}
	return n, nil
}

// Increment runs INCR on the date key.
func (r *redisSequenceRepo) Increment(ctx context.Context, date time.Time) (int, error) {
	n, err := r.client.Incr(ctx, r.key(date)).Result()
	if err != nil {
		return 0, fmt.Errorf("repo.RedisSequenceRepo.Increment: %w", err)
	}
	return int(n), nil
}
