package scorer

import (
	"math"

	"StochScan/internal/model"
)

// Holding-day bucket weights for the normal score.
const (
	weightWithin5  = 0.50
	weight5To10    = 0.25
	weight10To20   = 0.125
	weight20To30   = 0.075
	weightOver30   = 0.05
	weightNoOvlHit = 0.20
	weightPartial  = 0.15
	weightFull     = 0.10
	weightNeverHit = 0.05 // subtracted
)

// CountBuckets tallies the classified trades into percentage buckets of the
// total trade count. With zero trades every bucket is zero.
func CountBuckets(trades []model.Trade) model.BucketCounts {
	var c model.BucketCounts
	if len(trades) == 0 {
		return c
	}

	for _, t := range trades {
		switch t.Overlap {
		case model.PartiallyOverlapped:
			c.PartiallyOverlap++
		case model.FullyOverlapped:
			c.FullyOverlap++
		default:
			c.NoOverlap++
		}

		if t.Outcome != model.OutcomeTargetHit {
			c.NeverHit++
			continue
		}
		switch hd := t.HoldingDays; {
		case hd <= 5:
			c.Within5Days++
		case hd <= 10:
			c.Days5To10++
		case hd <= 20:
			c.Days10To20++
		case hd <= 30:
			c.Days20To30++
		default:
			c.Over30Days++
		}
		if t.Overlap == model.NoOverlap {
			c.TargetHitNoOverlap++
		}
	}

	scale := 100 / float64(len(trades))
	c.Within5Days *= scale
	c.Days5To10 *= scale
	c.Days10To20 *= scale
	c.Days20To30 *= scale
	c.Over30Days *= scale
	c.NeverHit *= scale
	c.TargetHitNoOverlap *= scale
	c.NoOverlap *= scale
	c.PartiallyOverlap *= scale
	c.FullyOverlap *= scale
	return c
}

// Scores reduces bucket percentages to the three per-security scores,
// each rounded to two decimals for presentation. The weighted score is
// summed at full precision before rounding.
func Scores(c model.BucketCounts) (normal, bonus, weighted float64) {
	normal = c.Within5Days*weightWithin5 +
		c.Days5To10*weight5To10 +
		c.Days10To20*weight10To20 +
		c.Days20To30*weight20To30 +
		c.Over30Days*weightOver30
	bonus = c.TargetHitNoOverlap*weightNoOvlHit +
		c.PartiallyOverlap*weightPartial +
		c.FullyOverlap*weightFull -
		c.NeverHit*weightNeverHit
	weighted = normal + bonus
	return round2(normal), round2(bonus), round2(weighted)
}

// Summarize builds the full per-security summary record.
func Summarize(symbol string, trades []model.Trade) model.SecuritySummary {
	buckets := CountBuckets(trades)
	normal, bonus, weighted := Scores(buckets)
	return model.SecuritySummary{
		Symbol:        symbol,
		TotalTrades:   len(trades),
		Buckets:       buckets,
		NormalScore:   normal,
		BonusScore:    bonus,
		WeightedScore: weighted,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
