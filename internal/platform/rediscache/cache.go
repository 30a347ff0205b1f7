// Package rediscache provides an optional Redis-backed cache for the
// read-only listing endpoints. Listing reads tolerate short staleness;
// admission decisions never read from this cache.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the requested key is not present.
var ErrCacheMiss = errors.New("cache: key not found")

// Key prefixes for namespacing listing keys.
const (
	prefixOpenLessons     = "lessons:open"
	prefixAvailableHorses = "horses:available:"
)

// DefaultTTL bounds how stale a cached listing may be.
const DefaultTTL = 30 * time.Second

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps a Redis client with JSON serialization and listing key
// management.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Cache and verifies the connection with a ping.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "listing_cache")),
	}, nil
}

// Close closes the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// OpenLessonsKey is the cache key for the open lesson listing.
func OpenLessonsKey() string {
	return prefixOpenLessons
}

// AvailableHorsesKey is the cache key for the available horse listing
// on one weekday.
func AvailableHorsesKey(day string) string {
	return prefixAvailableHorses + day
}

// Get retrieves and deserializes a cached listing into dest.
// Returns ErrCacheMiss if the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("deserializing cached listing: %w", err)
	}

	return nil
}

// Set serializes and stores a listing under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing listing for cache: %w", err)
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// InvalidateListings drops every cached listing. Called after enrollment
// writes and availability recomputation so readers converge quickly.
func (c *Cache) InvalidateListings(ctx context.Context) error {
	log := c.logger

	iter := c.client.Scan(ctx, 0, prefixOpenLessons+"*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	iter = c.client.Scan(ctx, 0, prefixAvailableHorses+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	log.Debug("listing cache invalidated", slog.Int("keys", len(keys)))
	return nil
}
