package models

// DegradationStage names the pipeline stage in which a service degraded
type DegradationStage string

const (
	StagePricing DegradationStage = "pricing"
	StageQuota   DegradationStage = "quota"
)

// DegradationReason describes which fallback path was taken
type DegradationReason string

const (
	// ReasonPricingQueryFailed means the Price List API returned an error
	ReasonPricingQueryFailed DegradationReason = "pricing_query_failed"

	// ReasonNoPricingData means the Price List API returned no products
	ReasonNoPricingData DegradationReason = "no_pricing_data"

	// ReasonQuotaFallback means static default quotas were used
	ReasonQuotaFallback DegradationReason = "quota_static_fallback"

	// ReasonQuotaOmitted means no quotas could be provided for the service
	ReasonQuotaOmitted DegradationReason = "quota_omitted"
)

// Degradation records a per-service fallback
type Degradation struct {
	Service string            `json:"service"`
	Stage   DegradationStage  `json:"stage"`
	Reason  DegradationReason `json:"reason"`
	Detail  string            `json:"detail,omitempty"`
}

// PipelineReport is the terminal artifact of one pipeline invocation
type PipelineReport struct {
	Source          string                    `json:"source"`
	Analysis        string                    `json:"analysis"`
	Services        []string                  `json:"services"`
	Pricing         map[string]ServicePricing `json:"pricing"`
	Quotas          map[string][]QuotaRecord  `json:"quotas"`
	CostEstimate    CostEstimate              `json:"cost_estimate"`
	Recommendations string                    `json:"recommendations"`
	Degradations    []Degradation             `json:"degradations,omitempty"`
	Timestamp       float64                   `json:"timestamp"`
}
