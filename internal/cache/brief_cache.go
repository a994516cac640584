package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/shelfbrief/internal/config"
	"github.com/retailops/shelfbrief/internal/domain"
)

const (
	briefKeyPrefix     = "brief:exec"
	briefScanBatchSize = 100
)

// BriefCache stores generated executive briefs keyed by analysis window and
// snapshot date. Briefs are cheap to recompute, so every cache failure is
// recoverable by falling back to the engine.
type BriefCache interface {
	GetBrief(ctx context.Context, windowDays int, asOf time.Time) (*domain.ExecutiveBrief, bool, error)
	SetBrief(ctx context.Context, windowDays int, asOf time.Time, brief *domain.ExecutiveBrief) error
	InvalidateAll(ctx context.Context) error
}

type redisBriefCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopBriefCache struct{}

func NewBriefCache(cfg config.CacheConfig) (BriefCache, error) {
	if !cfg.Enabled {
		return &noopBriefCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisBriefCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopBriefCache() BriefCache {
	return &noopBriefCache{}
}

func (c *redisBriefCache) GetBrief(ctx context.Context, windowDays int, asOf time.Time) (*domain.ExecutiveBrief, bool, error) {
	key := buildBriefKey(windowDays, asOf)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var brief domain.ExecutiveBrief
	if err := json.Unmarshal(payload, &brief); err != nil {
		return nil, false, fmt.Errorf("decode brief cache: %w", err)
	}

	return &brief, true, nil
}

func (c *redisBriefCache) SetBrief(ctx context.Context, windowDays int, asOf time.Time, brief *domain.ExecutiveBrief) error {
	key := buildBriefKey(windowDays, asOf)
	payload, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("encode brief cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisBriefCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, briefKeyPrefix, briefScanBatchSize)
}

func (n *noopBriefCache) GetBrief(ctx context.Context, windowDays int, asOf time.Time) (*domain.ExecutiveBrief, bool, error) {
	return nil, false, nil
}

func (n *noopBriefCache) SetBrief(ctx context.Context, windowDays int, asOf time.Time, brief *domain.ExecutiveBrief) error {
	return nil
}

func (n *noopBriefCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildBriefKey hashes the parameters that change the brief's content. The
// as-of date is truncated to the day because snapshots are daily.
func buildBriefKey(windowDays int, asOf time.Time) string {
	raw := fmt.Sprintf("window=%d|as_of=%s", windowDays, asOf.UTC().Format("2006-01-02"))
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", briefKeyPrefix, hex.EncodeToString(sum[:]))
}
