package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/llm"
)

// PrintQuotaTable prints the default quotas of every service
func PrintQuotaTable(out io.Writer, quotas map[string][]models.QuotaRecord) {
	if len(quotas) == 0 {
		return
	}

	fmt.Fprintln(out, "\n## Default Service Quotas")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tQUOTA\tVALUE\tADJUSTABLE")

	services := make([]string, 0, len(quotas))
	for service := range quotas {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		for _, q := range quotas[service] {
			adjustable := "No"
			if q.Adjustable {
				adjustable = "Yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", service, q.Name, llm.FormatQuotaValue(q), adjustable)
		}
	}

	w.Flush()
}

// PrintDegradations lists the services that fell back to degraded data
func PrintDegradations(out io.Writer, degradations []models.Degradation) {
	if len(degradations) == 0 {
		return
	}

	fmt.Fprintln(out, "\n## Degraded Services")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tSTAGE\tREASON\tDETAIL")
	for _, d := range degradations {
		detail := d.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Service, d.Stage, d.Reason, TruncateString(detail, maxAssumptionWidth))
	}
	w.Flush()
}
