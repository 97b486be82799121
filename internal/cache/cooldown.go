// Package cache holds Redis-backed process-shared state.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"moodjournal/backend/internal/logger"
)

const (
	defaultCooldownTTL = 60 * time.Second
	cooldownKeyPrefix  = "moodjournal:cooldown:"
)

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// ModelCooldown remembers models that answered 429 so every API instance
// skips them until the TTL lapses. Redis failures never block a request:
// reads report "not cooling" and writes are logged and dropped.
type ModelCooldown struct {
	rdb *goredis.Client
	log *logger.Logger
	ttl time.Duration
}

func NewModelCooldown(rdb *goredis.Client, log *logger.Logger, ttl time.Duration) *ModelCooldown {
	if log == nil {
		log = logger.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCooldownTTL
	}
	return &ModelCooldown{rdb: rdb, log: log.With("service", "ModelCooldown"), ttl: ttl}
}

func cooldownKey(model string) string {
	return cooldownKeyPrefix + strings.TrimSpace(model)
}

func (c *ModelCooldown) Cooling(ctx context.Context, model string) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, cooldownKey(model)).Result()
	if err != nil {
		c.log.Warn("Cooldown lookup failed", "model", model, "error", err.Error())
		return false
	}
	return n > 0
}

func (c *ModelCooldown) Mark(ctx context.Context, model string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, cooldownKey(model), time.Now().UTC().Format(time.RFC3339), c.ttl).Err(); err != nil {
		c.log.Warn("Cooldown mark failed", "model", model, "error", err.Error())
		return
	}
	c.log.Info("Model placed on cooldown", "model", model, "ttl", c.ttl.String())
}
