package notifier

import (
	"fmt"
	"strings"
	"time"

	"StochScan/internal/model"
)

// FormatScanReport formats the top-ranked securities of a scheduled scan
// into a Telegram message.
func FormatScanReport(summaries []model.SecuritySummary, skipped, failed int, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>StochScan daily report</b> | %s\n\n", today.Format("2006-01-02"))

	if len(summaries) == 0 {
		b.WriteString("No securities analyzed.\n")
	} else {
		top := summaries
		if len(top) > 10 {
			top = top[:10]
		}
		b.WriteString("<b>Top weighted scores:</b>\n")
		for i, s := range top {
			fmt.Fprintf(&b, "%2d. %-12s %6.2f (%d trades, %.0f%% never hit)\n",
				i+1, s.Symbol, s.WeightedScore, s.TotalTrades, s.Buckets.NeverHit)
		}
	}

	if skipped > 0 || failed > 0 {
		fmt.Fprintf(&b, "\n⚠️ skipped (no data): %d | retrieval errors: %d\n", skipped, failed)
	}
	return b.String()
}
