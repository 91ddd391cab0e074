package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storesync-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches the per-store sync status read model. The database is
// always the source of truth; every cached entry carries a short TTL and
// is invalidated after each recorded sync attempt.
type Client struct {
	rdb       *redis.Client
	statusTTL time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, statusTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, statusTTL: statusTTL}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func statusKey(storeID int64) string {
	return fmt.Sprintf("sync:status:%d", storeID)
}

// GetSyncStatus returns the cached status for a store, or nil on a miss
func (c *Client) GetSyncStatus(ctx context.Context, storeID int64) (*models.SyncStatus, error) {
	raw, err := c.rdb.Get(ctx, statusKey(storeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status models.SyncStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("corrupt cached status: %w", err)
	}
	return &status, nil
}

// SetSyncStatus caches the status for a store with the configured TTL
func (c *Client) SetSyncStatus(ctx context.Context, storeID int64, status *models.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statusKey(storeID), raw, c.statusTTL).Err()
}

// InvalidateSyncStatus drops the cached status for a store
func (c *Client) InvalidateSyncStatus(ctx context.Context, storeID int64) error {
	return c.rdb.Del(ctx, statusKey(storeID)).Err()
}
