package utils

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryTTL is how long cached summary responses stay fresh.
const SummaryTTL = 60 * time.Second

// UserKey builds the per-user cache key for a summary endpoint,
// e.g. "expenses:user:42".
func UserKey(prefix string, userID uint) string {
	return prefix + ":user:" + strconv.Itoa(int(userID))
}

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client means caching is disabled and reads always miss.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// SetCache stores value in Redis as JSON with the given TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// DeleteCache removes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key).Err()
}
