package pricing

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/utils"
)

// DefaultEngineName is the databaseEngine used for unknown engines
const DefaultEngineName = "MySQL"

// engineNames maps normalized engine names to Price List API databaseEngine values
var engineNames = map[string]string{
	"mysql":             "MySQL",
	"postgresql":        "PostgreSQL",
	"mariadb":           "MariaDB",
	"oracle":            "Oracle",
	"sqlserver":         "SQL Server",
	"aurora-mysql":      "Aurora MySQL",
	"aurora-postgresql": "Aurora PostgreSQL",
}

// configFields maps ResourceConfig keys to Price List API fields
var configFields = map[string]string{
	"instanceType":     "instanceType",
	"engine":           "databaseEngine",
	"storageClass":     "storageClass",
	"deploymentOption": "deploymentOption",
	"group":            "group",
}

// commonFilters are added only for services whose attribute list contains the field
var commonFilters = []models.FilterTerm{
	{Field: "operatingSystem", Value: "Linux"},
	{Field: "tenancy", Value: "Shared"},
	{Field: "preInstalledSw", Value: "NA"},
}

// ServiceAttributes records the attribute names each pricing service code supports
type ServiceAttributes map[string]map[string]bool

// Supports reports whether a service code is known to have an attribute
func (a ServiceAttributes) Supports(serviceCode, attribute string) bool {
	return a[serviceCode][attribute]
}

// LoadServiceAttributes fetches the attribute list of every pricing service
// code. Failures degrade to an empty result.
func LoadServiceAttributes(ctx context.Context, api pricing.DescribeServicesAPIClient, logger zerolog.Logger) ServiceAttributes {
	attrs := make(ServiceAttributes)

	paginator := pricing.NewDescribeServicesPaginator(api, &pricing.DescribeServicesInput{
		FormatVersion: aws.String("aws_v1"),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Could not list pricing service attributes, continuing without them")
			return make(ServiceAttributes)
		}
		for _, svc := range out.Services {
			code := aws.ToString(svc.ServiceCode)
			if attrs[code] == nil {
				attrs[code] = make(map[string]bool, len(svc.AttributeNames))
			}
			for _, name := range svc.AttributeNames {
				attrs[code][name] = true
			}
		}
	}

	logger.Debug().Int("services", len(attrs)).Msg("Loaded pricing service attributes")
	return attrs
}

// EngineName translates an engine hint to a Price List API databaseEngine value
func EngineName(engine string) string {
	key := strings.ToLower(strings.TrimSpace(engine))
	key = strings.NewReplacer(" ", "", "_", "-").Replace(key)
	switch key {
	case "postgres":
		key = "postgresql"
	case "aurora", "auroramysql":
		key = "aurora-mysql"
	case "aurora-postgres", "aurorapostgresql", "aurorapostgres":
		key = "aurora-postgresql"
	}
	if name, ok := engineNames[key]; ok {
		return name
	}
	return DefaultEngineName
}

// BuildPricingFilters builds the Price List API query for a service code.
// The ServiceCode term is always present. Configuration keys are mapped to
// API fields; location and the common EC2-style filters are only added when
// the service code is known to support them.
func BuildPricingFilters(serviceCode string, cfg models.ResourceConfig, attrs ServiceAttributes) models.PricingFilter {
	filter := models.PricingFilter{
		ServiceCode: serviceCode,
		Filters:     []models.FilterTerm{{Field: "ServiceCode", Value: serviceCode}},
	}
	seen := map[string]bool{"ServiceCode": true}
	add := func(field, value string) {
		if value == "" || seen[field] {
			return
		}
		seen[field] = true
		filter.Filters = append(filter.Filters, models.FilterTerm{Field: field, Value: value})
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := cfg[key]
		switch key {
		case "region":
			if attrs.Supports(serviceCode, "location") {
				add("location", utils.GetRegionLocationName(value))
			}
		case "engine":
			add(configFields[key], EngineName(value))
		case "operatingSystem":
			if attrs.Supports(serviceCode, "operatingSystem") {
				add("operatingSystem", value)
			}
		default:
			if field, ok := configFields[key]; ok {
				add(field, value)
			}
		}
	}

	for _, common := range commonFilters {
		if attrs.Supports(serviceCode, common.Field) {
			add(common.Field, common.Value)
		}
	}

	return filter
}

// CacheKey canonicalizes a filter: terms are sorted by field (then value)
// so that any permutation of the same terms yields the same key
func CacheKey(filter models.PricingFilter) string {
	terms := append([]models.FilterTerm(nil), filter.Filters...)
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Field != terms[j].Field {
			return terms[i].Field < terms[j].Field
		}
		return terms[i].Value < terms[j].Value
	})

	// Only strings are encoded, Marshal cannot fail
	key, _ := json.Marshal(models.PricingFilter{ServiceCode: filter.ServiceCode, Filters: terms})
	return string(key)
}
