package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

func UpdateDedupeKey(updateID int64) string {
	return fmt.Sprintf("update:%d", updateID)
}

// MarkUpdateSeen records an update id with a TTL. It returns false when the
// id was already recorded inside the TTL window.
func (c *Client) MarkUpdateSeen(ctx context.Context, updateID int64, ttl time.Duration) (bool, error) {
	return c.SetNX(ctx, UpdateDedupeKey(updateID), 1, ttl).Result()
}
