// Package config reads the runtime configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/archcost/pkg/utils"
)

// Pricing cache backends
const (
	CacheBackendDynamoDB = "dynamodb"
	CacheBackendRedis    = "redis"
	CacheBackendMemory   = "memory"
	CacheBackendNone     = "none"
)

// Defaults
const (
	DefaultOutputBucket      = "my-output-bucket"
	DefaultModelID           = "anthropic.claude-v2:1"
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 2 * time.Second
	DefaultPricingCacheTTL   = 24 * time.Hour
	DefaultPricingCacheTable = "PricingCache"
	DefaultRedisAddr         = "localhost:6379"
	DefaultOCRMaxPolls       = 120
)

// Config is the runtime configuration
type Config struct {
	OutputBucket      string
	OutputPrefix      string
	BedrockModelID    string
	MaxRetries        int
	RetryDelay        time.Duration
	PricingCacheTTL   time.Duration
	PricingCacheTable string
	CacheBackend      string
	RedisAddr         string
	Region            string
	OCRMaxPolls       int
}

// Load reads the configuration. Malformed numbers fall back to their
// defaults with a warning; an unknown cache backend is an error.
func Load(logger zerolog.Logger) (Config, error) {
	cfg := Config{
		OutputBucket:      getEnv("OUTPUT_BUCKET", DefaultOutputBucket),
		OutputPrefix:      os.Getenv("OUTPUT_PREFIX"),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", DefaultModelID),
		MaxRetries:        getInt(logger, "MAX_RETRIES", DefaultMaxRetries),
		RetryDelay:        getSeconds(logger, "RETRY_DELAY", DefaultRetryDelay),
		PricingCacheTTL:   getSeconds(logger, "PRICING_CACHE_TTL", DefaultPricingCacheTTL),
		PricingCacheTable: getEnv("PRICING_CACHE_TABLE", DefaultPricingCacheTable),
		CacheBackend:      strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendDynamoDB)),
		RedisAddr:         getEnv("REDIS_ADDR", DefaultRedisAddr),
		Region:            utils.GetDefaultRegion(),
		OCRMaxPolls:       getInt(logger, "OCR_MAX_POLLS", DefaultOCRMaxPolls),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if !utils.IsValidRegion(cfg.Region) {
		logger.Warn().Str("region", cfg.Region).Msg("Region has no known pricing location, prices default to US East (N. Virginia)")
	}

	logger.Debug().
		Str("outputBucket", cfg.OutputBucket).
		Str("model", cfg.BedrockModelID).
		Str("cacheBackend", cfg.CacheBackend).
		Dur("cacheTTL", cfg.PricingCacheTTL).
		Str("region", cfg.Region).
		Msg("Configuration loaded")

	return cfg, nil
}

// Validate checks the cache backend name
func (c Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendDynamoDB, CacheBackendRedis, CacheBackendMemory, CacheBackendNone:
		return nil
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: must be one of dynamodb, redis, memory, none", c.CacheBackend)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(logger zerolog.Logger, key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		logger.Warn().Str("value", raw).Msgf("invalid %s, using default", key)
		return def
	}
	return v
}

func getSeconds(logger zerolog.Logger, key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		logger.Warn().Str("value", raw).Msgf("invalid %s, using default", key)
		return def
	}
	return time.Duration(v * float64(time.Second))
}
