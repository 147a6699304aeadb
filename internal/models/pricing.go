package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// FilterTerm is a single TERM_MATCH criterion sent to the AWS Price List API
type FilterTerm struct {
	Field string `json:"Field"`
	Value string `json:"Value"`
}

// PricingFilter is the query for one pricing service code. It also acts as the
// pricing cache key after canonicalization.
type PricingFilter struct {
	ServiceCode string       `json:"ServiceCode"`
	Filters     []FilterTerm `json:"Filters"`
}

// ResourceConfig holds configuration hints extracted for a service
// (e.g. instanceType, engine, storageClass). Always has at least one entry.
type ResourceConfig map[string]string

// PriceTerm is a simplified price dimension of an on-demand or reserved term
type PriceTerm struct {
	Unit         string            `json:"unit"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
	Description  string            `json:"description"`
}

// USD returns the USD price string, or "" when absent
func (t *PriceTerm) USD() string {
	if t == nil {
		return ""
	}
	return t.PricePerUnit["USD"]
}

// ProductPricing groups the simplified pricing terms of a product
type ProductPricing struct {
	OnDemand *PriceTerm `json:"onDemand,omitempty"`
	Reserved *PriceTerm `json:"reserved,omitempty"`
}

// PricingRecord is a simplified Price List API product
type PricingRecord struct {
	SKU           string            `json:"sku"`
	ProductFamily string            `json:"productFamily,omitempty"`
	Attributes    map[string]string `json:"attributes"`
	Pricing       ProductPricing    `json:"pricing"`
}

// ServicePricing is the pricing result for one detected service. When the
// pricing query failed, Error is set and the value serializes as {"error": msg}.
type ServicePricing struct {
	Records []PricingRecord
	Error   string
}

// Failed reports whether the pricing result is an error sentinel
func (p ServicePricing) Failed() bool {
	return p.Error != ""
}

// MarshalJSON encodes records as a JSON array, or the error sentinel as an object
func (p ServicePricing) MarshalJSON() ([]byte, error) {
	if p.Failed() {
		return json.Marshal(map[string]string{"error": p.Error})
	}
	if p.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Records)
}

// UnmarshalJSON accepts both the array and the error sentinel forms
func (p *ServicePricing) UnmarshalJSON(data []byte) error {
	var records []PricingRecord
	if err := json.Unmarshal(data, &records); err == nil {
		p.Records = records
		p.Error = ""
		return nil
	}

	var sentinel map[string]string
	if err := json.Unmarshal(data, &sentinel); err != nil {
		return fmt.Errorf("error decoding service pricing: %w", err)
	}
	p.Records = nil
	p.Error = sentinel["error"]
	return nil
}

// PricingCacheEntry is a cached pricing result. Timestamp is Unix seconds.
type PricingCacheEntry struct {
	Key       string
	Data      []byte
	Timestamp float64
}
