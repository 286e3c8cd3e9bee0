package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Client *redis.Client // Expor publicamente para uso no feed de pacientes
}

// NewClient creates a new Redis client
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// Set sets a value in Redis with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists in Redis
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.Client.Exists(ctx, key).Result()
	return count > 0, err
}

// GetHospitalIDByCode retrieves the hospital id cached for an access code
func (c *Client) GetHospitalIDByCode(ctx context.Context, code string) (string, error) {
	key := fmt.Sprintf("hospital:codigo:%s", code)
	return c.Get(ctx, key)
}

// SetHospitalIDByCode caches the hospital id for an access code
func (c *Client) SetHospitalIDByCode(ctx context.Context, code, hospitalID string, expiration time.Duration) error {
	key := fmt.Sprintf("hospital:codigo:%s", code)
	return c.Set(ctx, key, hospitalID, expiration)
}

// InvalidateHospitalCode removes the cached access code entry
func (c *Client) InvalidateHospitalCode(ctx context.Context, code string) error {
	key := fmt.Sprintf("hospital:codigo:%s", code)
	return c.Delete(ctx, key)
}

// Publish publishes a message to a Redis channel
func (c *Client) Publish(ctx context.Context, channel string, message interface{}) error {
	return c.Client.Publish(ctx, channel, message).Err()
}

// Subscribe subscribes to Redis channels and returns the PubSub handle
func (c *Client) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return c.Client.Subscribe(ctx, channels...)
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}
