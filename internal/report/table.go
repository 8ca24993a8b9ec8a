package report

import (
	"fmt"
	"strings"

	"StochScan/internal/model"
)

// FormatSummaryTable renders the ranked security summaries as a fixed-width
// text table, one row per security, highest weighted score first.
func FormatSummaryTable(summaries []model.SecuritySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-12s %7s %7s %7s %8s %8s %7s %9s %8s %9s %8s %10s %7s %7s %9s\n",
		"Stock", "Trades", "<=5d%", "5-10d%", "10-20d%", "20-30d%", ">30d%",
		"NeverHit%", "NoOvl%", "PartOvl%", "FullOvl%", "Hit&NoOvl%", "Normal", "Bonus", "Weighted")
	b.WriteString(strings.Repeat("-", 141) + "\n")

	for _, s := range summaries {
		c := s.Buckets
		fmt.Fprintf(&b, "%-12s %7d %7.2f %7.2f %8.2f %8.2f %7.2f %9.2f %8.2f %9.2f %8.2f %10.2f %7.2f %7.2f %9.2f\n",
			s.Symbol, s.TotalTrades,
			c.Within5Days, c.Days5To10, c.Days10To20, c.Days20To30, c.Over30Days,
			c.NeverHit, c.NoOverlap, c.PartiallyOverlap, c.FullyOverlap,
			c.TargetHitNoOverlap, s.NormalScore, s.BonusScore, s.WeightedScore)
	}
	return b.String()
}

// FormatTradeLog renders one security's classified trades, entry order.
func FormatTradeLog(symbol string, trades []model.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d trades\n", symbol, len(trades))
	fmt.Fprintf(&b, "%-12s %10s %10s %-12s %10s %-11s %5s %-20s\n",
		"Entry", "Price", "Target", "Exit", "ExitPrice", "Outcome", "Days", "Overlap")
	for _, t := range trades {
		exitDate, exitPrice, days := "-", "-", "-"
		if t.Outcome == model.OutcomeTargetHit {
			exitDate = t.ExitDate.Format("2006-01-02")
			exitPrice = fmt.Sprintf("%.2f", t.ExitPrice)
			days = fmt.Sprintf("%d", t.HoldingDays)
		}
		fmt.Fprintf(&b, "%-12s %10.2f %10.2f %-12s %10s %-11s %5s %-20s\n",
			t.EntryDate.Format("2006-01-02"), t.EntryPrice, t.TargetPrice,
			exitDate, exitPrice, t.Outcome, days, t.Overlap)
	}
	return b.String()
}
