package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"invoice-backend/internal/config"
)

// Statistics plot keys
const (
	InvoiceStatisticsKey = "statistics:invoices.svg"
	ItemStatisticsKey    = "statistics:items.svg"
)

var (
	client *redis.Client
	ttl    = 5 * time.Minute
)

// Init connects to Redis when redis.addr is configured. With no address, or when the
// server does not answer, the client stays nil and every cache call is a no-op.
func Init(cfg *config.Config) error {
	if cfg.Redis.TTL > 0 {
		ttl = cfg.Redis.TTL
	}
	if cfg.Redis.Addr == "" {
		return nil
	}

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return err
	}
	client = c
	return nil
}

// GetClient returns the Redis client, or nil when caching is disabled
func GetClient() *redis.Client {
	return client
}

// Close releases the connection pool
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with the configured TTL
func SetCached(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateInvoiceCaches clears plots derived from invoices
// Called when: CreateInvoice, DeleteInvoice, UpdateItem
func InvalidateInvoiceCaches(ctx context.Context) {
	InvalidateKeys(ctx, InvoiceStatisticsKey)
}

// InvalidateItemCaches clears plots derived from items
// Called when: CreateItem, UpdateItem, DeleteItem
func InvalidateItemCaches(ctx context.Context) {
	InvalidateKeys(ctx, ItemStatisticsKey)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
