package redis

import (
	"context"
	"fmt"
	"time"

	"smartCampaign/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens the shared client backing sessions and the campaign
// launch guard. Connectivity is verified with a ping before the client is
// handed out so a bad address fails at startup, not on first request.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     "default",
		Password:     cfg.Redis.RedisPassword,
		DB:           cfg.Redis.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return client, nil
}

// CloseRedisClient closes the connection pool. Safe on a nil client.
func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}

	return client.Close()
}
