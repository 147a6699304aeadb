// Package quota resolves default service quotas for detected services from
// the Service Quotas API, falling back to a static table of published limits.
package quota

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/servicequotas"
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/catalog"
)

// MaxQuotasPerService bounds the number of quotas kept for one service
const MaxQuotasPerService = 10

var errNoQuotas = errors.New("no default quotas returned")

// Resolver looks up default quotas. A nil API client is allowed: every
// service then goes straight to the static fallback table.
type Resolver struct {
	api     servicequotas.ListAWSDefaultServiceQuotasAPIClient
	catalog *catalog.ServiceCatalog
	logger  zerolog.Logger
}

// NewClient creates a Service Quotas client for a region
func NewClient(ctx context.Context, region string, optFns ...func(*config.LoadOptions) error) (*servicequotas.Client, error) {
	opts := append([]func(*config.LoadOptions) error{config.WithRegion(region)}, optFns...)
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}
	return servicequotas.NewFromConfig(cfg), nil
}

// NewResolver creates a quota Resolver
func NewResolver(api servicequotas.ListAWSDefaultServiceQuotasAPIClient, c *catalog.ServiceCatalog, logger zerolog.Logger) *Resolver {
	return &Resolver{api: api, catalog: c, logger: logger}
}

// Resolve returns up to MaxQuotasPerService quotas per service. Services
// without API results or a fallback entry are left out of the map; every
// fallback or omission is reported as a degradation. It never fails.
func (r *Resolver) Resolve(ctx context.Context, services []string) (map[string][]models.QuotaRecord, []models.Degradation) {
	quotas := make(map[string][]models.QuotaRecord)
	var degradations []models.Degradation

	for _, service := range services {
		code := r.catalog.ResolveQuotaCode(service)

		records, err := r.fetch(ctx, service, code)
		if err == nil {
			quotas[service] = records
			continue
		}

		if fallback, ok := lookup(fallbackQuotas, service, code); ok {
			r.logger.Warn().Err(err).Str("service", service).Msg("Using fallback quota values")
			quotas[service] = selectQuotas(append([]models.QuotaRecord(nil), fallback...))
			degradations = append(degradations, models.Degradation{
				Service: service,
				Stage:   models.StageQuota,
				Reason:  models.ReasonQuotaFallback,
				Detail:  err.Error(),
			})
			continue
		}

		r.logger.Warn().Err(err).Str("service", service).Str("quotaCode", code).Msg("No quota information available")
		degradations = append(degradations, models.Degradation{
			Service: service,
			Stage:   models.StageQuota,
			Reason:  models.ReasonQuotaOmitted,
			Detail:  err.Error(),
		})
	}

	return quotas, degradations
}

// fetch lists every default quota of a service code and keeps the relevant ones
func (r *Resolver) fetch(ctx context.Context, service, code string) ([]models.QuotaRecord, error) {
	if r.api == nil {
		return nil, errors.New("service quotas client not initialized")
	}

	paginator := servicequotas.NewListAWSDefaultServiceQuotasPaginator(r.api, &servicequotas.ListAWSDefaultServiceQuotasInput{
		ServiceCode: aws.String(code),
	})

	var all []models.QuotaRecord
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing default quotas for %s: %w", code, err)
		}
		for _, q := range out.Quotas {
			record := models.QuotaRecord{
				Name:       aws.ToString(q.QuotaName),
				Value:      models.UnlimitedQuota,
				Adjustable: q.Adjustable,
				Unit:       aws.ToString(q.Unit),
			}
			if q.Value != nil {
				record.Value = *q.Value
			}
			all = append(all, record)
		}
	}

	if len(all) == 0 {
		return nil, errNoQuotas
	}

	words, ok := lookup(keywords, service, code)
	if !ok {
		if len(all) > MaxQuotasPerService {
			all = all[:MaxQuotasPerService]
		}
		return selectQuotas(all), nil
	}

	filtered := filterByKeywords(all, words)
	if len(filtered) == 0 {
		return nil, errNoQuotas
	}
	return selectQuotas(filtered), nil
}

func filterByKeywords(records []models.QuotaRecord, words []string) []models.QuotaRecord {
	var filtered []models.QuotaRecord
	for _, rec := range records {
		name := strings.ToLower(rec.Name)
		for _, w := range words {
			if strings.Contains(name, w) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

// selectQuotas orders non-adjustable quotas first, then by name, and keeps
// at most MaxQuotasPerService
func selectQuotas(records []models.QuotaRecord) []models.QuotaRecord {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Adjustable != records[j].Adjustable {
			return !records[i].Adjustable
		}
		return records[i].Name < records[j].Name
	})
	if len(records) > MaxQuotasPerService {
		records = records[:MaxQuotasPerService]
	}
	return records
}
