package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/archcost/pkg/pricing"
)

// PrintPricingAPIStats prints the statistics of pricing API calls
func PrintPricingAPIStats(out io.Writer, stats map[string]map[pricing.PricingSource]int) {
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(out, "\n## AWS Pricing API Call Statistics")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "SERVICE CODE\tAPI CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")

	codes := make([]string, 0, len(stats))
	for code := range stats {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		sources := stats[code]
		success := sources[pricing.PricingSourceAPI]
		failure := sources[pricing.PricingSourceNA]
		cache := sources[pricing.PricingSourceCache]
		total := success + failure

		// Calculate success rate percentage
		successRate := 0.0
		if total > 0 {
			successRate = float64(success) / float64(total) * 100.0
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
			code,
			total,
			success,
			failure,
			cache,
			successRate,
		)
	}

	w.Flush()
}
