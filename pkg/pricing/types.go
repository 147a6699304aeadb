package pricing

import (
	"sync"
	"time"
)

// PricingSource represents the source of pricing information
type PricingSource string

const (
	// PricingSourceAPI indicates pricing data came from AWS API
	PricingSourceAPI PricingSource = "API"

	// PricingSourceCache indicates pricing data came from cache
	PricingSourceCache PricingSource = "Cache"

	// PricingSourceNA indicates pricing data is not available
	PricingSourceNA PricingSource = "N/A"
)

const (
	// DefaultCacheTTL is how long a cached pricing result stays valid
	DefaultCacheTTL = 24 * time.Hour

	// MaxPages bounds the number of GetProducts pages fetched per query
	MaxPages = 5

	// maxProductsPerPage is how many simplified products are kept per page
	maxProductsPerPage = 5

	// pageSize is the GetProducts page size
	pageSize = 100
)

// Stats tracks Pricing API outcomes per service code
type Stats struct {
	mu     sync.RWMutex
	counts map[string]map[PricingSource]int
}

// NewStats creates empty statistics
func NewStats() *Stats {
	return &Stats{counts: make(map[string]map[PricingSource]int)}
}
