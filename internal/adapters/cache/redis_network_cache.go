package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
)

// Network views are cached per root and requested depth. Depths are clamped
// to [1, MaxNetworkLevels] before lookup, so invalidation can enumerate
// every possible key for a root instead of scanning the keyspace.
const (
	networkKeyPrefix = "network"
	treeKeyPrefix    = "tree"
)

// RedisNetworkCache caches rendered referral views in Redis.
type RedisNetworkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNetworkCache creates a network cache over an existing client.
func NewRedisNetworkCache(client *redis.Client, ttl time.Duration) *RedisNetworkCache {
	return &RedisNetworkCache{client: client, ttl: ttl}
}

var _ portsrepo.NetworkCache = (*RedisNetworkCache)(nil)

func viewKey(prefix, rootID string, levels int) string {
	return fmt.Sprintf("%s:%s:%d", prefix, rootID, levels)
}

// GetNetwork returns a cached level-grouped network view.
func (c *RedisNetworkCache) GetNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error) {
	var network domain.ReferralNetwork
	if err := c.get(ctx, viewKey(networkKeyPrefix, rootID, levels), &network); err != nil {
		return nil, err
	}
	return &network, nil
}

// SetNetwork caches a level-grouped network view.
func (c *RedisNetworkCache) SetNetwork(ctx context.Context, rootID string, levels int, network *domain.ReferralNetwork) error {
	return c.set(ctx, viewKey(networkKeyPrefix, rootID, levels), network)
}

// GetTree returns a cached tree view.
func (c *RedisNetworkCache) GetTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error) {
	var tree domain.ReferralTreeNode
	if err := c.get(ctx, viewKey(treeKeyPrefix, rootID, maxLevels), &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// SetTree caches a tree view.
func (c *RedisNetworkCache) SetTree(ctx context.Context, rootID string, maxLevels int, tree *domain.ReferralTreeNode) error {
	return c.set(ctx, viewKey(treeKeyPrefix, rootID, maxLevels), tree)
}

// InvalidateUser drops all cached views rooted at the given users.
func (c *RedisNetworkCache) InvalidateUser(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs)*2*domain.MaxNetworkLevels)
	for _, id := range userIDs {
		for levels := 1; levels <= domain.MaxNetworkLevels; levels++ {
			keys = append(keys, viewKey(networkKeyPrefix, id, levels))
			keys = append(keys, viewKey(treeKeyPrefix, id, levels))
		}
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("error invalidating cached views: %w", err)
	}
	return nil
}

func (c *RedisNetworkCache) get(ctx context.Context, key string, out any) error {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache miss for %s: %w", key, err)
		}
		return fmt.Errorf("error reading cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("error decoding cache key %s: %w", key, err)
	}
	return nil
}

func (c *RedisNetworkCache) set(ctx context.Context, key string, view any) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("error encoding cache key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("error writing cache key %s: %w", key, err)
	}
	return nil
}
