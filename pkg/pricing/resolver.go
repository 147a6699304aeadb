// Package pricing resolves detected services to AWS Price List API products,
// caching results in a durable store.
package pricing

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/cache"
	"github.com/younsl/archcost/pkg/catalog"
	"github.com/younsl/archcost/pkg/utils"
)

// Resolver fetches pricing for detected services
type Resolver struct {
	api        pricing.GetProductsAPIClient
	store      cache.Store
	catalog    *catalog.ServiceCatalog
	attributes ServiceAttributes
	ttl        time.Duration
	now        func() time.Time
	stats      *Stats
	logger     zerolog.Logger
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithCache sets the pricing cache; without it every lookup queries the API
func WithCache(store cache.Store) Option {
	return func(r *Resolver) { r.store = store }
}

// WithTTL sets how long cached results stay valid
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithAttributes sets the per-service attribute list used to gate common filters
func WithAttributes(attrs ServiceAttributes) Option {
	return func(r *Resolver) { r.attributes = attrs }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver
func NewResolver(api pricing.GetProductsAPIClient, c *catalog.ServiceCatalog, opts ...Option) *Resolver {
	r := &Resolver{
		api:        api,
		catalog:    c,
		attributes: make(ServiceAttributes),
		ttl:        DefaultCacheTTL,
		now:        time.Now,
		stats:      NewStats(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the Pricing API statistics collected so far
func (r *Resolver) Stats() *Stats {
	return r.stats
}

// Resolve maps a service to its pricing code, extracts its configuration from
// the analysis text and returns matching products. Query failures come back as
// an error sentinel, never as a Go error.
func (r *Resolver) Resolve(ctx context.Context, service, analysis string) models.ServicePricing {
	code := MapServiceToCode(r.catalog, service)
	cfg := ExtractResourceConfig(service, analysis)
	filter := BuildPricingFilters(code, cfg, r.attributes)

	r.logger.Debug().
		Str("service", service).
		Str("serviceCode", code).
		Interface("config", cfg).
		Msg("Resolving pricing")

	return r.FetchCached(ctx, filter)
}

// FetchCached returns a cached result when one younger than the TTL exists,
// otherwise queries the API and writes the result back. Cache failures are
// logged and ignored.
func (r *Resolver) FetchCached(ctx context.Context, filter models.PricingFilter) models.ServicePricing {
	key := CacheKey(filter)

	if r.store != nil {
		if result, ok := r.readCache(ctx, key); ok {
			r.stats.record(filter.ServiceCode, PricingSourceCache)
			return result
		}
	}

	result := r.fetch(ctx, filter)

	if r.store != nil {
		r.writeCache(ctx, key, result)
	}
	return result
}

func (r *Resolver) readCache(ctx context.Context, key string) (models.ServicePricing, bool) {
	entry, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Error accessing pricing cache")
		return models.ServicePricing{}, false
	}
	if !found {
		return models.ServicePricing{}, false
	}

	age := utils.UnixSeconds(r.now()) - entry.Timestamp
	if age >= r.ttl.Seconds() {
		return models.ServicePricing{}, false
	}

	var result models.ServicePricing
	if err := json.Unmarshal(entry.Data, &result); err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring undecodable pricing cache entry")
		return models.ServicePricing{}, false
	}

	r.logger.Info().Str("key", key).Msg("Using cached pricing data")
	return result, true
}

func (r *Resolver) writeCache(ctx context.Context, key string, result models.ServicePricing) {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Error encoding pricing cache entry")
		return
	}

	err = r.store.Put(ctx, models.PricingCacheEntry{
		Key:       key,
		Data:      data,
		Timestamp: utils.UnixSeconds(r.now()),
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Error storing in pricing cache")
	}
}

func (r *Resolver) fetch(ctx context.Context, filter models.PricingFilter) models.ServicePricing {
	if r.api == nil {
		r.stats.record(filter.ServiceCode, PricingSourceNA)
		return models.ServicePricing{Error: "AWS pricing client not initialized"}
	}

	records, err := fetchProducts(ctx, r.api, filter)
	if err != nil {
		r.logger.Error().Err(err).Str("serviceCode", filter.ServiceCode).Msg("Error getting pricing")
		r.stats.record(filter.ServiceCode, PricingSourceNA)
		return models.ServicePricing{Error: err.Error()}
	}

	r.stats.record(filter.ServiceCode, PricingSourceAPI)
	return models.ServicePricing{Records: records}
}
