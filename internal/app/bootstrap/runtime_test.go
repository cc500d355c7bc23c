package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/salonbook/yclients-proxy/internal/config"
	"github.com/salonbook/yclients-proxy/internal/ratelimit"
	"github.com/salonbook/yclients-proxy/internal/settings"
	"github.com/salonbook/yclients-proxy/pkg/logging"
)

func TestBuildRedisClient(t *testing.T) {
	logger := logging.New("error")

	t.Run("no address disables redis", func(t *testing.T) {
		client := BuildRedisClient(context.Background(), &appconfig.Config{}, logger, true)
		assert.Nil(t, client)
	})

	t.Run("verify fails on unreachable server", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
		client := BuildRedisClient(context.Background(), cfg, logger, true)
		assert.Nil(t, client)
	})

	t.Run("verify succeeds against live server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &appconfig.Config{RedisAddr: mr.Addr()}
		client := BuildRedisClient(context.Background(), cfg, logger, true)
		require.NotNil(t, client)
		assert.NoError(t, client.Ping(context.Background()).Err())
	})
}

func TestBuildStoresFallBackWithoutRedis(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{CompanyID: 42}

	assert.IsType(t, &settings.StaticStore{}, BuildSettingsStore(nil, cfg, logger))
	assert.IsType(t, &ratelimit.MemoryStore{}, BuildRateLimitStore(nil, logger))
}

func TestBuildStoresUseRedisWhenAvailable(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logging.New("error")
	cfg := &appconfig.Config{RedisAddr: mr.Addr(), CompanyID: 42}

	client := BuildRedisClient(context.Background(), cfg, logger, true)
	require.NotNil(t, client)

	assert.IsType(t, &settings.RedisStore{}, BuildSettingsStore(client, cfg, logger))
	assert.IsType(t, &ratelimit.RedisStore{}, BuildRateLimitStore(client, logger))
}
