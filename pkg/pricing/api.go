package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/younsl/archcost/internal/models"
)

// APIRegion is where the Price List API is served (us-east-1 and ap-south-1 only)
const APIRegion = "us-east-1"

// PricingAPI is the subset of the Price List API client used here
type PricingAPI interface {
	pricing.GetProductsAPIClient
	pricing.DescribeServicesAPIClient
}

// NewClient creates a Price List API client in APIRegion
func NewClient(ctx context.Context, optFns ...func(*config.LoadOptions) error) (*pricing.Client, error) {
	opts := append([]func(*config.LoadOptions) error{
		config.WithRegion(APIRegion),
		config.WithRetryMode(aws.RetryModeStandard),
	}, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for pricing API: %w", err)
	}
	return pricing.NewFromConfig(cfg), nil
}

// toAPIFilters converts filter terms to TERM_MATCH filters
func toAPIFilters(terms []models.FilterTerm) []types.Filter {
	filters := make([]types.Filter, 0, len(terms))
	for _, t := range terms {
		filters = append(filters, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(t.Field),
			Value: aws.String(t.Value),
		})
	}
	return filters
}

// fetchProducts queries GetProducts page by page, stopping after MaxPages
func fetchProducts(ctx context.Context, api pricing.GetProductsAPIClient, filter models.PricingFilter) ([]models.PricingRecord, error) {
	if filter.ServiceCode == "" {
		return nil, fmt.Errorf("invalid pricing filters: missing service code")
	}

	paginator := pricing.NewGetProductsPaginator(api, &pricing.GetProductsInput{
		ServiceCode: aws.String(filter.ServiceCode),
		Filters:     toAPIFilters(filter.Filters),
		MaxResults:  aws.Int32(pageSize),
	})

	records := []models.PricingRecord{}
	for page := 0; page < MaxPages && paginator.HasMorePages(); page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error calling AWS Pricing API: %w", err)
		}
		records = append(records, simplifyPriceList(out.PriceList)...)
	}
	return records, nil
}
