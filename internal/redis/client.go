package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"grocery_store/internal/models"
	"grocery_store/internal/services"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionPrefix = "session:"
	productPrefix = "catalog:products:"
)

// Client implements services.SessionStore and services.ProductCache.
type Client struct {
	rdb      *redis.Client
	cacheTTL time.Duration
}

func Initialize(redisURL string, cacheTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewClient(rdb, cacheTTL), nil
}

func NewClient(rdb *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{rdb: rdb, cacheTTL: cacheTTL}
}

// Session management
func (c *Client) SaveSession(ctx context.Context, token string, session *services.Session, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, sessionPrefix+token, jsonData, ttl).Err()
}

func (c *Client) LoadSession(ctx context.Context, token string) (*services.Session, error) {
	val, err := c.rdb.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, services.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session services.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionPrefix+token).Err()
}

// Product listing cache
func (c *Client) GetProducts(ctx context.Context, key string) ([]models.Product, bool, error) {
	val, err := c.rdb.Get(ctx, productPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached products: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	return products, true, nil
}

func (c *Client) SetProducts(ctx context.Context, key string, products []models.Product) error {
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	return c.rdb.Set(ctx, productPrefix+key, jsonData, c.cacheTTL).Err()
}

// InvalidateProducts drops every cached product listing.
func (c *Client) InvalidateProducts(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, productPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan product cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

var (
	_ services.SessionStore = (*Client)(nil)
	_ services.ProductCache = (*Client)(nil)
)
