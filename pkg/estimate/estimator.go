// Package estimate turns simplified pricing records and the analysis text into
// an approximate monthly cost estimate.
package estimate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/utils"
)

// GeneralAssumptions are appended to every estimate
var GeneralAssumptions = []string{
	"All services run 24/7 unless otherwise specified",
	"Data transfer costs not included",
	"Free tier benefits not applied",
	"On-demand pricing used (no reserved instances or savings plans)",
}

// Disclaimers are attached to every estimate
var Disclaimers = []string{
	"This cost estimate is approximate and for informational purposes only.",
	"Actual AWS billing may vary based on usage patterns, data transfer, request patterns, and other factors.",
	"This estimate doesn't account for AWS Free Tier benefits, which may reduce actual costs.",
	"Prices are based on current public AWS pricing and may change over time.",
	"For a more accurate estimate, use the AWS Pricing Calculator or contact AWS.",
}

// assumptionAttributes are record attributes echoed as assumptions
var assumptionAttributes = []string{"databaseEngine", "instanceType", "memory", "storageClass", "vcpu", "volumeType"}

var (
	hoursPerMonth    = decimal.NewFromFloat(utils.HoursPerMonth)
	requestBlockSize = decimal.NewFromInt(1000)
)

// Estimate computes the monthly cost of every priced service. Services with
// failed or empty pricing cost zero and carry an explanatory assumption.
func Estimate(pricing map[string]models.ServicePricing, analysis string) models.CostEstimate {
	services := make([]string, 0, len(pricing))
	for service := range pricing {
		services = append(services, service)
	}
	sort.Strings(services)

	total := decimal.Zero
	serviceCosts := make(map[string]models.ServiceCost, len(services))
	var assumptions []string

	for _, service := range services {
		cost, serviceAssumptions := estimateService(service, pricing[service], analysis)
		total = total.Add(cost)
		serviceCosts[service] = models.ServiceCost{
			EstimatedMonthlyCost: cost.InexactFloat64(),
			Assumptions:          serviceAssumptions,
		}
		assumptions = append(assumptions, serviceAssumptions...)
	}

	return models.CostEstimate{
		TotalEstimatedMonthlyCost: total.Round(2).InexactFloat64(),
		ServiceCosts:              serviceCosts,
		Assumptions:               dedupe(append(assumptions, GeneralAssumptions...)),
		Disclaimers:               append([]string(nil), Disclaimers...),
	}
}

func estimateService(service string, pricing models.ServicePricing, analysis string) (decimal.Decimal, []string) {
	if pricing.Failed() {
		return decimal.Zero, []string{fmt.Sprintf("Could not estimate cost for %s: %s", service, pricing.Error)}
	}
	if len(pricing.Records) == 0 {
		return decimal.Zero, []string{fmt.Sprintf("Could not estimate cost for %s: no pricing data available", service)}
	}

	record := pricing.Records[0]
	onDemand := record.Pricing.OnDemand
	if onDemand == nil {
		return decimal.Zero, []string{fmt.Sprintf("Could not estimate cost for %s: no on-demand pricing", service)}
	}

	price, err := decimal.NewFromString(onDemand.USD())
	if err != nil {
		return decimal.Zero, []string{"Could not calculate price - using placeholder"}
	}

	usage := ExtractUsagePatterns(service, analysis)
	cost, assumptions := UnitCost(price, onDemand.Unit, usage)

	for _, key := range assumptionAttributes {
		if v, ok := record.Attributes[key]; ok {
			assumptions = append(assumptions, fmt.Sprintf("%s: %s", key, v))
		}
	}
	return cost, assumptions
}

// UnitCost applies the unit-aware monthly cost rule:
// hourly units cost price x 730 x instances, GB-month units price x storage,
// request units price x requests / 1000, anything else price x count x 730.
func UnitCost(price decimal.Decimal, unit string, usage models.UsagePattern) (decimal.Decimal, []string) {
	unit = strings.ToLower(unit)
	count := usage.Get(models.UsageInstances, 1)

	switch {
	case unit == "hrs" || unit == "hour":
		cost := price.Mul(hoursPerMonth).Mul(decimal.NewFromFloat(count))
		return cost, []string{
			"Running for 730 hours per month (24/7)",
			fmt.Sprintf("Running %s instance(s)", humanize.Ftoa(count)),
		}
	case strings.Contains(unit, "gb-mo"):
		size := usage.Get(models.UsageStorageGB, 1)
		return price.Mul(decimal.NewFromFloat(size)), []string{
			fmt.Sprintf("Storage size of %s GB", humanize.Commaf(size)),
		}
	case strings.Contains(unit, "requests"):
		requests := usage.Get(models.UsageRequests, 100000)
		cost := price.Mul(decimal.NewFromFloat(requests)).Div(requestBlockSize)
		return cost, []string{
			fmt.Sprintf("Approximately %s requests per month", humanize.Commaf(requests)),
		}
	}

	cost := price.Mul(decimal.NewFromFloat(count)).Mul(hoursPerMonth)
	return cost, []string{fmt.Sprintf("Using %s units for 730 hours per month", humanize.Ftoa(count))}
}

// dedupe removes repeated strings, keeping the first occurrence
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
