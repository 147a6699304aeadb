package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/pricing"
)

func TestPrintCostTable(t *testing.T) {
	var buf bytes.Buffer
	PrintCostTable(&buf, models.CostEstimate{
		TotalEstimatedMonthlyCost: 1234.5,
		ServiceCosts: map[string]models.ServiceCost{
			"s3":  {EstimatedMonthlyCost: 2.3, Assumptions: []string{"Storage: 100 GB", "Requests: 10000 per month"}},
			"ec2": {EstimatedMonthlyCost: 1232.2},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "SERVICE")
	assert.Contains(t, out, "$1,232.20")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "Requests: 10000 per month")
	assert.Less(t, strings.Index(out, "ec2"), strings.Index(out, "s3"))
}

func TestPrintCostTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintCostTable(&buf, models.CostEstimate{})
	assert.Equal(t, "No services could be estimated.\n", buf.String())
}

func TestPrintQuotaTable(t *testing.T) {
	var buf bytes.Buffer
	PrintQuotaTable(&buf, map[string][]models.QuotaRecord{
		"lambda": {
			{Name: "Concurrent executions", Value: 1000, Adjustable: true, Unit: "None"},
			{Name: "Function timeout", Value: models.UnlimitedQuota},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Concurrent executions")
	assert.Contains(t, out, "1,000")
	assert.Contains(t, out, "Unlimited")
	assert.Contains(t, out, "Yes")
}

func TestPrintDegradations(t *testing.T) {
	var buf bytes.Buffer
	PrintDegradations(&buf, nil)
	assert.Empty(t, buf.String())

	PrintDegradations(&buf, []models.Degradation{
		{Service: "rds", Stage: models.StagePricing, Reason: models.ReasonPricingQueryFailed, Detail: "throttled"},
		{Service: "kafka", Stage: models.StageQuota, Reason: models.ReasonQuotaOmitted},
	})
	out := buf.String()
	assert.Contains(t, out, "pricing_query_failed")
	assert.Contains(t, out, "throttled")
	assert.Contains(t, out, "quota_omitted")
}

func TestPrintPricingAPIStats(t *testing.T) {
	var buf bytes.Buffer
	PrintPricingAPIStats(&buf, map[string]map[pricing.PricingSource]int{
		"AmazonEC2": {pricing.PricingSourceAPI: 3, pricing.PricingSourceNA: 1, pricing.PricingSourceCache: 2},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, []string{"AmazonEC2", "4", "3", "1", "2", "75.0%"}, strings.Fields(lines[2]))
}

func TestPrintTimestamp(t *testing.T) {
	var buf bytes.Buffer
	PrintTimestamp(&buf, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 1500*time.Millisecond)
	assert.Equal(t, "Analysis completed at 2024-03-01 12:00:00 (took 1.50s)\n", buf.String())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "한...", TruncateString("한국어", 5))
	assert.Equal(t, 6, StringWidth("한국어"))
}
