package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/config"
	"github.com/andresuchdata/wms-stockout/internal/quality"
	"github.com/redis/go-redis/v9"
)

const qualityReportKeyPrefix = "quality:report:"

type QualityReportCache interface {
	GetReport(ctx context.Context, fingerprint string) (*quality.Report, bool, error)
	SetReport(ctx context.Context, fingerprint string, report *quality.Report) error
	InvalidateAll(ctx context.Context) error
}

type redisQualityCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopQualityCache struct{}

func NewQualityReportCache(cfg config.CacheConfig) (QualityReportCache, error) {
	if !cfg.Enabled {
		return &noopQualityCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisQualityCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopQualityReportCache() QualityReportCache {
	return &noopQualityCache{}
}

func (c *redisQualityCache) GetReport(ctx context.Context, fingerprint string) (*quality.Report, bool, error) {
	payload, err := c.client.Get(ctx, qualityReportKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report quality.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode quality report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisQualityCache) SetReport(ctx context.Context, fingerprint string, report *quality.Report) error {
	if report == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode quality report cache: %w", err)
	}

	if err := c.client.Set(ctx, qualityReportKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisQualityCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, qualityReportKeyPrefix, scanBatchSize)
}

func (n *noopQualityCache) GetReport(ctx context.Context, fingerprint string) (*quality.Report, bool, error) {
	return nil, false, nil
}

func (n *noopQualityCache) SetReport(ctx context.Context, fingerprint string, report *quality.Report) error {
	return nil
}

func (n *noopQualityCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func qualityReportKey(fingerprint string) string {
	return qualityReportKeyPrefix + fingerprintHash(fingerprint)
}
