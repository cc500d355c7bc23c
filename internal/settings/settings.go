// Package settings provides the widget's YCLIENTS settings snapshot.
//
// Settings are owned by the admin side and read-only here. Every proxied
// operation reads a fresh snapshot through a Store so token rotations take
// effect without a restart.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/salonbook/yclients-proxy/internal/config"
)

// Settings is one consistent snapshot of the widget configuration.
type Settings struct {
	PartnerToken    string `json:"partner_token"`
	UserToken       string `json:"user_token"`
	CompanyID       int    `json:"company_id"`
	DefaultBranchID int    `json:"default_branch_id"`
	Timezone        string `json:"timezone"`
	DebugLogging    bool   `json:"debug_logging"`
}

// Store yields the current settings snapshot.
type Store interface {
	Get(ctx context.Context) (*Settings, error)
}

// FromConfig builds the default settings snapshot from process configuration.
func FromConfig(cfg *config.Config) Settings {
	return Settings{
		PartnerToken:    cfg.PartnerToken,
		UserToken:       cfg.UserToken,
		CompanyID:       cfg.CompanyID,
		DefaultBranchID: cfg.DefaultBranchID,
		Timezone:        cfg.Timezone,
		DebugLogging:    cfg.DebugLogging,
	}
}

// StaticStore serves a fixed snapshot, typically loaded from the environment.
type StaticStore struct {
	settings Settings
}

// NewStatic creates a store that always returns the given settings.
func NewStatic(s Settings) *StaticStore {
	return &StaticStore{settings: s}
}

// Get returns a copy of the snapshot.
func (s *StaticStore) Get(context.Context) (*Settings, error) {
	snapshot := s.settings
	return &snapshot, nil
}

const redisKey = "booking:settings"

// RedisStore reads admin-managed settings from Redis, merging whatever is
// stored over the environment defaults. A missing key yields the defaults.
type RedisStore struct {
	redis    *redis.Client
	defaults Settings
}

// NewRedisStore creates a Redis-backed settings store.
func NewRedisStore(client *redis.Client, defaults Settings) *RedisStore {
	return &RedisStore{redis: client, defaults: defaults}
}

// Get retrieves the current settings, returning defaults if not found.
func (s *RedisStore) Get(ctx context.Context) (*Settings, error) {
	data, err := s.redis.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		snapshot := s.defaults
		return &snapshot, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get: %w", err)
	}

	// Unmarshal over a copy of the defaults so absent fields keep their
	// configured values.
	snapshot := s.defaults
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("settings: unmarshal: %w", err)
	}
	return &snapshot, nil
}

// Set saves the settings snapshot for the admin side.
func (s *RedisStore) Set(ctx context.Context, settings *Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("settings: set: %w", err)
	}
	return nil
}
