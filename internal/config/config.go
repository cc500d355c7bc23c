package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// YCLIENTS upstream
	YclientsBaseURL string
	PartnerToken    string
	UserToken       string
	CompanyID       int
	DefaultBranchID int
	Timezone        string
	DebugLogging    bool
	UpstreamTimeout time.Duration

	// Rate limiting
	RateLimit  int
	RateWindow time.Duration

	// Anti-forgery tokens for the booking form
	NonceSecret string
	NonceTTL    time.Duration

	PublicBaseURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		YclientsBaseURL: getEnv("YCLIENTS_BASE_URL", ""),
		PartnerToken:    getEnv("YCLIENTS_PARTNER_TOKEN", ""),
		UserToken:       getEnv("YCLIENTS_USER_TOKEN", ""),
		CompanyID:       getEnvAsInt("YCLIENTS_COMPANY_ID", 0),
		DefaultBranchID: getEnvAsInt("YCLIENTS_DEFAULT_BRANCH_ID", 0),
		Timezone:        strings.TrimSpace(getEnv("YCLIENTS_TIMEZONE", "Europe/Moscow")),
		DebugLogging:    getEnvAsBool("YCLIENTS_DEBUG_LOGGING", false),
		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		RateLimit:  getEnvAsInt("RATE_LIMIT", 30),
		RateWindow: getEnvAsDuration("RATE_WINDOW", 300*time.Second),

		NonceSecret: getEnv("NONCE_SECRET", ""),
		NonceTTL:    getEnvAsDuration("NONCE_TTL", 12*time.Hour),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
