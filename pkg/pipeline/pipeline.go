// Package pipeline runs the document analysis stages: text extraction,
// model analysis, service detection, pricing, quotas, cost estimation,
// recommendations and report persistence.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/estimate"
	"github.com/younsl/archcost/pkg/llm"
	"github.com/younsl/archcost/pkg/utils"
)

// TextExtractor reads the text of an uploaded document
type TextExtractor interface {
	Extract(ctx context.Context, bucket, key string) (string, error)
}

// Detector finds service names in the analysis text
type Detector interface {
	Detect(text string) models.ServiceSet
}

// PricingResolver fetches pricing for one service
type PricingResolver interface {
	Resolve(ctx context.Context, service, analysis string) models.ServicePricing
}

// QuotaResolver fetches default quotas for services
type QuotaResolver interface {
	Resolve(ctx context.Context, services []string) (map[string][]models.QuotaRecord, []models.Degradation)
}

// ReportWriter persists a report and returns its location
type ReportWriter interface {
	Write(ctx context.Context, r *models.PipelineReport) (string, error)
}

// Deps are the stage implementations of a Pipeline
type Deps struct {
	Extractor TextExtractor
	Model     llm.Client
	Detector  Detector
	Pricing   PricingResolver
	Quotas    QuotaResolver
	Reports   ReportWriter

	// Setup runs before every invocation, e.g. to create the output bucket. Optional.
	Setup func(ctx context.Context) error
}

// Pipeline processes one document per invocation. Stages run sequentially.
type Pipeline struct {
	deps   Deps
	now    func() time.Time
	logger zerolog.Logger
}

// Result is the outcome of a successful run
type Result struct {
	Report   *models.PipelineReport
	Location string
}

// New creates a Pipeline
func New(deps Deps, logger zerolog.Logger) *Pipeline {
	return &Pipeline{deps: deps, now: time.Now, logger: logger}
}

// Run analyzes s3://bucket/key and persists the report. Per-service pricing
// and quota failures degrade the report; extraction, model and storage
// failures abort the run.
func (p *Pipeline) Run(ctx context.Context, bucket, key string) (*Result, error) {
	if p.deps.Setup != nil {
		if err := p.deps.Setup(ctx); err != nil {
			return nil, err
		}
	}

	source := fmt.Sprintf("s3://%s/%s", bucket, key)
	p.logger.Info().Str("source", source).Msg("Processing file")

	text, err := p.deps.Extractor.Extract(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("error extracting text: %w", err)
	}

	analysis, err := p.deps.Model.Query(ctx, llm.BuildAnalysisPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("error analyzing infrastructure: %w", err)
	}

	services := p.deps.Detector.Detect(analysis).Sorted()
	p.logger.Info().Strs("services", services).Msg("Identified services")

	pricing := make(map[string]models.ServicePricing, len(services))
	var degradations []models.Degradation
	for _, service := range services {
		result := p.deps.Pricing.Resolve(ctx, service, analysis)
		pricing[service] = result
		if d, ok := pricingDegradation(service, result); ok {
			degradations = append(degradations, d)
		}
	}

	quotas, quotaDegradations := p.deps.Quotas.Resolve(ctx, services)
	if quotas == nil {
		quotas = make(map[string][]models.QuotaRecord)
	}
	degradations = append(degradations, quotaDegradations...)

	costEstimate := estimate.Estimate(pricing, analysis)
	p.logger.Info().Float64("total", costEstimate.TotalEstimatedMonthlyCost).Msg("Estimated monthly cost")

	recommendations, err := p.deps.Model.Query(ctx, llm.BuildRecommendationsPrompt(analysis, pricing, costEstimate, quotas))
	if err != nil {
		return nil, fmt.Errorf("error generating recommendations: %w", err)
	}

	report := &models.PipelineReport{
		Source:          source,
		Analysis:        analysis,
		Services:        services,
		Pricing:         pricing,
		Quotas:          quotas,
		CostEstimate:    costEstimate,
		Recommendations: recommendations,
		Degradations:    degradations,
		Timestamp:       utils.UnixSeconds(p.now()),
	}

	location, err := p.deps.Reports.Write(ctx, report)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Str("location", location).Int("degraded", len(degradations)).Msg("Analysis stored")

	return &Result{Report: report, Location: location}, nil
}

func pricingDegradation(service string, result models.ServicePricing) (models.Degradation, bool) {
	switch {
	case result.Failed():
		return models.Degradation{
			Service: service,
			Stage:   models.StagePricing,
			Reason:  models.ReasonPricingQueryFailed,
			Detail:  result.Error,
		}, true
	case len(result.Records) == 0:
		return models.Degradation{
			Service: service,
			Stage:   models.StagePricing,
			Reason:  models.ReasonNoPricingData,
		}, true
	}
	return models.Degradation{}, false
}
