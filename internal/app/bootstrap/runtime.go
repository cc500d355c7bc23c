// Package bootstrap wires runtime dependencies from configuration.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/salonbook/yclients-proxy/internal/config"
	"github.com/salonbook/yclients-proxy/internal/ratelimit"
	"github.com/salonbook/yclients-proxy/internal/settings"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSettingsStore returns the Redis-backed store when Redis is available,
// so admin edits apply without a restart, and a static snapshot otherwise.
func BuildSettingsStore(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) settings.Store {
	defaults := settings.FromConfig(cfg)
	if client == nil {
		if logger != nil {
			logger.Info("settings store: static (no redis)")
		}
		return settings.NewStatic(defaults)
	}
	return settings.NewRedisStore(client, defaults)
}

// BuildRateLimitStore prefers Redis so limits hold across replicas; without
// it each instance counts on its own.
func BuildRateLimitStore(client *redis.Client, logger *logging.Logger) ratelimit.Store {
	if client == nil {
		if logger != nil {
			logger.Info("rate limit store: in-memory (no redis)")
		}
		return ratelimit.NewMemoryStore()
	}
	return ratelimit.NewRedisStore(client)
}
