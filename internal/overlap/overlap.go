package overlap

import (
	"sort"
	"time"

	"StochScan/internal/model"
)

// Classify assigns every trade its overlap type against the other trades of
// the same security. Open trades are treated as active through lastKnown.
// The comparison is deliberately pairwise O(n²): n is a per-security trade
// count (tens), and the first full containment found wins, which is an
// observable tie-break, not a performance detail.
func Classify(trades []model.Trade, lastKnown time.Time) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].EntryDate.Before(trades[j].EntryDate)
	})

	for i := range trades {
		si := trades[i].EntryDate
		ei := trades[i].ActiveUntil(lastKnown)

		fully, partial := false, false
		for j := range trades {
			if i == j {
				continue
			}
			sj := trades[j].EntryDate
			ej := trades[j].ActiveUntil(lastKnown)

			// Closed-interval intersection test.
			if si.After(ej) || ei.Before(sj) {
				continue
			}
			if !si.Before(sj) && !ei.After(ej) {
				fully = true
				break
			}
			partial = true
		}

		switch {
		case fully:
			trades[i].Overlap = model.FullyOverlapped
		case partial:
			trades[i].Overlap = model.PartiallyOverlapped
		default:
			trades[i].Overlap = model.NoOverlap
		}
	}
}
