package models

// Usage dimensions of a UsagePattern
const (
	UsageHours         = "hours"
	UsageInstances     = "instances"
	UsageStorageGB     = "storage_gb"
	UsageRequests      = "requests"
	UsageInvocations   = "invocations"
	UsageAvgDurationMs = "avg_duration_ms"
	UsageMemoryMB      = "memory_mb"
)

// UsagePattern maps usage dimensions to estimated monthly quantities
type UsagePattern map[string]float64

// Get returns the value of a dimension, or def when the dimension is absent
func (u UsagePattern) Get(dimension string, def float64) float64 {
	if v, ok := u[dimension]; ok {
		return v
	}
	return def
}

// Clone returns an independent copy
func (u UsagePattern) Clone() UsagePattern {
	c := make(UsagePattern, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// ServiceCost is the estimated monthly cost of one service
type ServiceCost struct {
	EstimatedMonthlyCost float64  `json:"estimated_monthly_cost"`
	Assumptions          []string `json:"assumptions"`
}

// CostEstimate aggregates per-service costs
type CostEstimate struct {
	TotalEstimatedMonthlyCost float64                `json:"total_estimated_monthly_cost"`
	ServiceCosts              map[string]ServiceCost `json:"service_costs"`
	Assumptions               []string               `json:"assumptions"`
	Disclaimers               []string               `json:"disclaimers"`
}
