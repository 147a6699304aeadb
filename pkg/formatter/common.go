package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// PrintTimestamp prints the analysis timestamp and duration
func PrintTimestamp(out io.Writer, startTime time.Time, duration time.Duration) {
	timeStr := startTime.Format("2006-01-02 15:04:05")
	durationStr := fmt.Sprintf("%.2fs", duration.Seconds())

	fmt.Fprintf(out, "Analysis completed at %s (took %s)\n", timeStr, durationStr)
}

// formatCost renders a USD amount with thousands separators, e.g. $1,234.50
func formatCost(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
