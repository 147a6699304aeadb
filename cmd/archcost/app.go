package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/config"
	"github.com/younsl/archcost/pkg/aws"
	"github.com/younsl/archcost/pkg/cache"
	"github.com/younsl/archcost/pkg/catalog"
	"github.com/younsl/archcost/pkg/detect"
	"github.com/younsl/archcost/pkg/llm"
	"github.com/younsl/archcost/pkg/pipeline"
	"github.com/younsl/archcost/pkg/pricing"
	"github.com/younsl/archcost/pkg/quota"
	"github.com/younsl/archcost/pkg/report"
)

// cacheTableWait bounds how long startup waits for a new DynamoDB cache table
const cacheTableWait = 2 * time.Minute

// app holds the process-wide clients built once at startup
type app struct {
	cfg      config.Config
	catalog  *catalog.ServiceCatalog
	pricing  *pricing.Resolver
	pipeline *pipeline.Pipeline
}

// newApp builds every client and the pipeline. Only catalog enumeration and
// AWS configuration errors are fatal; the pricing and quota clients degrade.
func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	svcCatalog, err := loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("identifiers", len(svcCatalog.Identifiers())).Msg("Service catalog built")

	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	resolver := newPricingResolver(ctx, cfg, svcCatalog, logger)

	// A missing Service Quotas client leaves the static fallback table
	var quotaResolver *quota.Resolver
	quotaClient, err := quota.NewClient(ctx, cfg.Region, aws.ConfigOptions()...)
	if err != nil {
		logger.Warn().Err(err).Msg("Service Quotas client unavailable, using static quotas")
		quotaResolver = quota.NewResolver(nil, svcCatalog, logger)
	} else {
		quotaResolver = quota.NewResolver(quotaClient, svcCatalog, logger)
	}

	runtime, err := llm.NewRuntimeClient(ctx, cfg.Region, aws.ConfigOptions()...)
	if err != nil {
		return nil, err
	}
	model := llm.WithRetry(llm.NewBedrockClient(runtime, cfg.BedrockModelID), cfg.MaxRetries, cfg.RetryDelay, logger)

	objects := aws.NewS3Store(aws.NewS3Client(awsCfg), cfg.Region, logger)
	extractor := aws.NewTextExtractor(textract.NewFromConfig(awsCfg), objects, cfg.OCRMaxPolls, logger)

	p := pipeline.New(pipeline.Deps{
		Extractor: extractor,
		Model:     model,
		Detector:  detect.NewDetector(svcCatalog, logger),
		Pricing:   resolver,
		Quotas:    quotaResolver,
		Reports:   report.NewWriter(objects, cfg.OutputBucket, cfg.OutputPrefix),
		Setup: func(ctx context.Context) error {
			return objects.EnsureBucket(ctx, cfg.OutputBucket)
		},
	}, logger)

	return &app{cfg: cfg, catalog: svcCatalog, pricing: resolver, pipeline: p}, nil
}

// newPricingResolver wires the Price List API client and the configured cache.
// A client failure yields a resolver that reports every query as failed.
func newPricingResolver(ctx context.Context, cfg config.Config, c *catalog.ServiceCatalog, logger zerolog.Logger) *pricing.Resolver {
	opts := []pricing.Option{
		pricing.WithTTL(cfg.PricingCacheTTL),
		pricing.WithLogger(logger),
	}

	store, err := newCacheStore(ctx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("backend", cfg.CacheBackend).Msg("Pricing cache unavailable, continuing without cache")
	} else if store != nil {
		opts = append(opts, pricing.WithCache(store))
	}

	client, err := pricing.NewClient(ctx, aws.ConfigOptions()...)
	if err != nil {
		logger.Warn().Err(err).Msg("Pricing API client unavailable")
		return pricing.NewResolver(nil, c, opts...)
	}

	attrs := pricing.LoadServiceAttributes(ctx, client, logger)
	opts = append(opts, pricing.WithAttributes(attrs))
	return pricing.NewResolver(client, c, opts...)
}

// newCacheStore returns the configured pricing cache; nil means caching is off
func newCacheStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendDynamoDB:
		awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		store := cache.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.PricingCacheTable, logger)
		if err := store.EnsureTable(ctx, cacheTableWait); err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisStore(client, ""), nil
	case config.CacheBackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, nil
	}
}

// loadCatalog builds the service catalog from the embedded identifier list
func loadCatalog(ctx context.Context) (*catalog.ServiceCatalog, error) {
	return catalog.Load(ctx, catalog.EmbeddedEnumerator{})
}
