package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	adminStatsKey      = "admin:stats"
	adminStatsTTL      = 5 * time.Minute
	donationUpdateChan = "donations:updates"
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheAdminStats stores the admin dashboard counters. The cache is
// invalidated whenever a donation or role row changes, so a hit is never
// staler than the last mutation plus the TTL safety net.
func CacheAdminStats(ctx context.Context, stats interface{}) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, adminStatsKey, data, adminStatsTTL).Err()
}

// GetCachedAdminStats retrieves the cached admin dashboard counters into dest.
func GetCachedAdminStats(ctx context.Context, dest interface{}) error {
	data, err := RedisClient.Get(ctx, adminStatsKey).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// InvalidateAdminStats drops the cached counters after a mutation
func InvalidateAdminStats(ctx context.Context) error {
	return RedisClient.Del(ctx, adminStatsKey).Err()
}

// PublishDonationUpdate publishes a donation change event to Redis pub/sub
// for consumers outside this process.
func PublishDonationUpdate(ctx context.Context, donationID uint, event string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"donationId": donationID,
		"event":      event,
		"data":       data,
		"timestamp":  time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, donationUpdateChan, jsonData).Err()
}
