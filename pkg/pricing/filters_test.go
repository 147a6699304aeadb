package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/archcost/internal/models"
)

func TestEngineName(t *testing.T) {
	tests := map[string]string{
		"mysql":           "MySQL",
		"postgres":        "PostgreSQL",
		"PostgreSQL":      "PostgreSQL",
		"sql server":      "SQL Server",
		"aurora":          "Aurora MySQL",
		"aurora postgres": "Aurora PostgreSQL",
		"cockroach":       DefaultEngineName,
	}
	for in, want := range tests {
		assert.Equal(t, want, EngineName(in), in)
	}
}

func TestBuildPricingFilters(t *testing.T) {
	t.Run("service code always present", func(t *testing.T) {
		f := BuildPricingFilters("AmazonSQS", models.ResourceConfig{"region": "us-east-1", "configuration": "standard"}, nil)
		assert.Equal(t, "AmazonSQS", f.ServiceCode)
		assert.Equal(t, []models.FilterTerm{{Field: "ServiceCode", Value: "AmazonSQS"}}, f.Filters)
	})

	t.Run("rds maps engine and deployment", func(t *testing.T) {
		attrs := ServiceAttributes{"AmazonRDS": {"location": true}}
		cfg := models.ResourceConfig{
			"region":           "eu-west-1",
			"instanceType":     "db.r5.large",
			"engine":           "postgresql",
			"deploymentOption": "Multi-AZ",
		}
		f := BuildPricingFilters("AmazonRDS", cfg, attrs)
		assert.ElementsMatch(t, []models.FilterTerm{
			{Field: "ServiceCode", Value: "AmazonRDS"},
			{Field: "databaseEngine", Value: "PostgreSQL"},
			{Field: "deploymentOption", Value: "Multi-AZ"},
			{Field: "instanceType", Value: "db.r5.large"},
			{Field: "location", Value: "EU (Ireland)"},
		}, f.Filters)
	})

	t.Run("unsupported attributes are skipped", func(t *testing.T) {
		cfg := models.ResourceConfig{"region": "us-east-1", "instanceType": "t3.micro", "operatingSystem": "Linux"}
		f := BuildPricingFilters("AmazonEC2", cfg, ServiceAttributes{})
		assert.Equal(t, []models.FilterTerm{
			{Field: "ServiceCode", Value: "AmazonEC2"},
			{Field: "instanceType", Value: "t3.micro"},
		}, f.Filters)
	})

	t.Run("unknown region falls back to default location", func(t *testing.T) {
		attrs := ServiceAttributes{"AmazonS3": {"location": true}}
		f := BuildPricingFilters("AmazonS3", models.ResourceConfig{"region": "xx-nowhere-9"}, attrs)
		assert.Contains(t, f.Filters, models.FilterTerm{Field: "location", Value: "US East (N. Virginia)"})
	})
}

func TestCacheKey_SortsTerms(t *testing.T) {
	f := models.PricingFilter{ServiceCode: "AmazonEC2", Filters: []models.FilterTerm{
		{Field: "tenancy", Value: "Shared"},
		{Field: "ServiceCode", Value: "AmazonEC2"},
		{Field: "instanceType", Value: "t3.micro"},
	}}

	assert.Equal(t,
		`{"ServiceCode":"AmazonEC2","Filters":[{"Field":"ServiceCode","Value":"AmazonEC2"},{"Field":"instanceType","Value":"t3.micro"},{"Field":"tenancy","Value":"Shared"}]}`,
		CacheKey(f))
	assert.Equal(t, "tenancy", f.Filters[0].Field, "input must not be reordered")
}

type fakeDescribeServices struct {
	out []*pricing.DescribeServicesOutput
	err error
	n   int
}

func (f *fakeDescribeServices) DescribeServices(_ context.Context, _ *pricing.DescribeServicesInput, _ ...func(*pricing.Options)) (*pricing.DescribeServicesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.out[f.n]
	f.n++
	return out, nil
}

func TestLoadServiceAttributes(t *testing.T) {
	api := &fakeDescribeServices{out: []*pricing.DescribeServicesOutput{
		{
			Services:  []types.Service{{ServiceCode: aws.String("AmazonEC2"), AttributeNames: []string{"location", "tenancy"}}},
			NextToken: aws.String("next"),
		},
		{
			Services: []types.Service{{ServiceCode: aws.String("AmazonS3"), AttributeNames: []string{"storageClass"}}},
		},
	}}

	attrs := LoadServiceAttributes(context.Background(), api, zerolog.Nop())
	require.Len(t, attrs, 2)
	assert.True(t, attrs.Supports("AmazonEC2", "tenancy"))
	assert.True(t, attrs.Supports("AmazonS3", "storageClass"))
	assert.False(t, attrs.Supports("AmazonS3", "location"))
	assert.False(t, attrs.Supports("AWSLambda", "location"))
}

func TestLoadServiceAttributes_Error(t *testing.T) {
	api := &fakeDescribeServices{err: errors.New("access denied")}

	attrs := LoadServiceAttributes(context.Background(), api, zerolog.Nop())
	assert.Empty(t, attrs)
}
