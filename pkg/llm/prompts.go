package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/younsl/archcost/internal/models"
)

const (
	// MaxAnalysisInput is how many characters of the document are sent for analysis
	MaxAnalysisInput = 15000

	analysisMaxTokens        = 1500
	recommendationsMaxTokens = 2000

	maxPricingOptions = 3
	maxAssumptions    = 10
	maxQuotas         = 5
)

// RecommendationCategories are the sections the model is asked to cover
var RecommendationCategories = []string{
	"Cost optimization - Include specific instance right-sizing, reserved instances, savings plans, and storage optimizations",
	"Performance improvements - Suggest architecture changes to improve performance",
	"Security enhancements - Identify potential security issues and recommend solutions",
	"Reliability and high availability - Recommend changes to improve system reliability",
	"Architecture best practices - Suggest AWS Well-Architected Framework improvements",
	"Service quota considerations - Flag quotas the architecture may hit and whether they can be raised",
}

// BuildAnalysisPrompt asks the model to describe the services, configuration
// and cost drivers of an infrastructure document
func BuildAnalysisPrompt(text string) Prompt {
	if runes := []rune(text); len(runes) > MaxAnalysisInput {
		text = string(runes[:MaxAnalysisInput]) + "..."
	}

	content := fmt.Sprintf(`Analyze this infrastructure description and extract the following information:
1. AWS services mentioned
2. Resource types and configurations (include instance types, storage sizes, etc.)
3. Architecture patterns and relationships between services
4. Potential cost drivers and high-cost components
5. Security considerations

Infrastructure description:
%s

Please format your response in clear sections for each category. Be specific about resource configurations when they are mentioned.`, text)

	return NewPrompt(content, analysisMaxTokens)
}

// BuildRecommendationsPrompt combines the analysis with pricing, the cost
// estimate and default quotas into an optimization request
func BuildRecommendationsPrompt(analysis string, pricing map[string]models.ServicePricing, estimate models.CostEstimate, quotas map[string][]models.QuotaRecord) Prompt {
	var b strings.Builder

	b.WriteString("Based on the following infrastructure analysis, pricing information, cost estimates, and service quotas,\n")
	b.WriteString("provide detailed optimization recommendations to improve cost efficiency, performance, security, and reliability.\n\n")
	b.WriteString("Infrastructure Analysis:\n")
	b.WriteString(analysis)
	b.WriteString("\n\n")

	writePricingSummary(&b, pricing)
	writeCostSummary(&b, estimate)
	writeQuotaSummary(&b, quotas)

	b.WriteString("\nPlease provide specific, actionable recommendations in these categories:\n")
	for i, category := range RecommendationCategories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, category)
	}
	b.WriteString(`
For each recommendation, explain:
- The specific issue or opportunity
- The recommended change with specific AWS services or configurations
- The expected benefit (quantify if possible)
- Implementation approach and complexity (low, medium, high)

Include a section at the beginning with a summary of the estimated monthly cost and key cost-saving opportunities.`)

	return NewPrompt(b.String(), recommendationsMaxTokens)
}

func writePricingSummary(b *strings.Builder, pricing map[string]models.ServicePricing) {
	b.WriteString("Pricing Information:\n")
	for _, service := range sortedKeys(pricing) {
		p := pricing[service]
		fmt.Fprintf(b, "\n%s PRICING:\n", strings.ToUpper(service))

		if p.Failed() {
			fmt.Fprintf(b, "  Error retrieving pricing: %s\n", p.Error)
			continue
		}

		for i, record := range p.Records {
			if i == maxPricingOptions {
				break
			}
			fmt.Fprintf(b, "Option %d:\n", i+1)
			for _, k := range sortedKeys(record.Attributes) {
				fmt.Fprintf(b, "  %s: %s\n", k, record.Attributes[k])
			}
			if t := record.Pricing.OnDemand; t != nil {
				fmt.Fprintf(b, "  On-Demand: %s USD per %s\n", orNA(t.USD()), orUnit(t.Unit))
			}
			if t := record.Pricing.Reserved; t != nil {
				fmt.Fprintf(b, "  Reserved: %s USD per %s\n", orNA(t.USD()), orUnit(t.Unit))
			}
		}
	}
}

func writeCostSummary(b *strings.Builder, estimate models.CostEstimate) {
	fmt.Fprintf(b, "\nESTIMATED MONTHLY COST: $%.2f USD\n\n", estimate.TotalEstimatedMonthlyCost)

	b.WriteString("Service Cost Breakdown:\n")
	for _, service := range sortedKeys(estimate.ServiceCosts) {
		fmt.Fprintf(b, "- %s: $%.2f USD\n", service, estimate.ServiceCosts[service].EstimatedMonthlyCost)
	}

	b.WriteString("\nAssumptions:\n")
	for i, a := range estimate.Assumptions {
		if i == maxAssumptions {
			break
		}
		fmt.Fprintf(b, "- %s\n", a)
	}

	b.WriteString("\nDisclaimers:\n")
	for _, d := range estimate.Disclaimers {
		fmt.Fprintf(b, "- %s\n", d)
	}
}

func writeQuotaSummary(b *strings.Builder, quotas map[string][]models.QuotaRecord) {
	if len(quotas) == 0 {
		return
	}

	b.WriteString("\nService Quotas (AWS defaults):\n")
	for _, service := range sortedKeys(quotas) {
		fmt.Fprintf(b, "\n%s QUOTAS:\n", strings.ToUpper(service))
		for i, q := range quotas[service] {
			if i == maxQuotas {
				break
			}
			adjustable := "not adjustable"
			if q.Adjustable {
				adjustable = "adjustable"
			}
			fmt.Fprintf(b, "- %s: %s (%s)\n", q.Name, FormatQuotaValue(q), adjustable)
		}
	}
}

// FormatQuotaValue renders a quota value with its unit
func FormatQuotaValue(q models.QuotaRecord) string {
	if q.Value == models.UnlimitedQuota {
		return "Unlimited"
	}
	value := humanize.Commaf(q.Value)
	if q.Unit == "" || q.Unit == "None" {
		return value
	}
	return value + " " + q.Unit
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnit(s string) string {
	if s == "" {
		return "unit"
	}
	return s
}
