package lib

import (
	"context"
	"log"

	"sltourism/src/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// GetRedisClient returns the shared client for REDIS_HOST, or nil when the
// URL is missing or invalid.
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	if config.REDIS_HOST == "" {
		return nil
	}
	opt, err := redis.ParseURL(config.REDIS_HOST)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// PingRedis reports whether the shared client answers.
func PingRedis(ctx context.Context) error {
	rdb := GetRedisClient()
	if rdb == nil {
		return redis.ErrClosed
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] Ping failed: %s\n", err.Error())
		return err
	}
	return nil
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
