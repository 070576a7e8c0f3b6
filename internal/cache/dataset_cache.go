package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/config"
	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/redis/go-redis/v9"
)

const datasetKeyPrefix = "dataset:"

// DatasetCache stores synthesized snapshot datasets keyed by the masters
// fingerprint and the number of periods.
type DatasetCache interface {
	Get(ctx context.Context, fingerprint string, periods int) ([]domain.Snapshot, bool, error)
	Set(ctx context.Context, fingerprint string, periods int, rows []domain.Snapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisDatasetCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDatasetCache struct{}

// NewDatasetCache returns a redis-backed cache, or a noop one when caching is disabled.
func NewDatasetCache(cfg config.CacheConfig) (DatasetCache, error) {
	if !cfg.Enabled {
		return &noopDatasetCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDatasetCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDatasetCache() DatasetCache {
	return &noopDatasetCache{}
}

func (c *redisDatasetCache) Get(ctx context.Context, fingerprint string, periods int) ([]domain.Snapshot, bool, error) {
	payload, err := c.client.Get(ctx, DatasetKey(fingerprint, periods)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rows []domain.Snapshot
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("decode dataset cache: %w", err)
	}

	return rows, true, nil
}

func (c *redisDatasetCache) Set(ctx context.Context, fingerprint string, periods int, rows []domain.Snapshot) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode dataset cache: %w", err)
	}

	if err := c.client.Set(ctx, DatasetKey(fingerprint, periods), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDatasetCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, datasetKeyPrefix, scanBatchSize)
}

func (n *noopDatasetCache) Get(ctx context.Context, fingerprint string, periods int) ([]domain.Snapshot, bool, error) {
	return nil, false, nil
}

func (n *noopDatasetCache) Set(ctx context.Context, fingerprint string, periods int, rows []domain.Snapshot) error {
	return nil
}

func (n *noopDatasetCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// DatasetKey is dataset:<sha1(fingerprint)>:<periods>.
func DatasetKey(fingerprint string, periods int) string {
	return fmt.Sprintf("%s%s:%d", datasetKeyPrefix, fingerprintHash(fingerprint), periods)
}
