package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/archcost/internal/models"
)

// maxAssumptionWidth bounds the ASSUMPTIONS column
const maxAssumptionWidth = 80

// PrintCostTable prints the per-service cost breakdown followed by the total
func PrintCostTable(out io.Writer, estimate models.CostEstimate) {
	if len(estimate.ServiceCosts) == 0 {
		fmt.Fprintln(out, "No services could be estimated.")
		return
	}

	fmt.Fprintln(out, "\n## Estimated Monthly Cost")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tCOST/MO\tASSUMPTIONS")

	services := make([]string, 0, len(estimate.ServiceCosts))
	for service := range estimate.ServiceCosts {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		cost := estimate.ServiceCosts[service]
		first := "-"
		if len(cost.Assumptions) > 0 {
			first = TruncateString(cost.Assumptions[0], maxAssumptionWidth)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", service, formatCost(cost.EstimatedMonthlyCost), first)

		// Remaining assumptions go on continuation rows
		for i := 1; i < len(cost.Assumptions); i++ {
			fmt.Fprintf(w, "\t\t%s\n", TruncateString(cost.Assumptions[i], maxAssumptionWidth))
		}
	}

	fmt.Fprintf(w, "TOTAL\t%s\t\n", formatCost(estimate.TotalEstimatedMonthlyCost))
	w.Flush()
}
