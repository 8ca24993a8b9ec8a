package model

// BucketCounts holds per-security bucket values as percentages of the total
// trade count, full precision. The five holding-day buckets plus NeverHit
// partition the trades; the three overlap buckets partition them again.
type BucketCounts struct {
	Within5Days        float64
	Days5To10          float64
	Days10To20         float64
	Days20To30         float64
	Over30Days         float64
	NeverHit           float64
	TargetHitNoOverlap float64
	NoOverlap          float64
	PartiallyOverlap   float64
	FullyOverlap       float64
}

// SecuritySummary is the per-security output record. Scores are rounded to
// two decimals; bucket percentages keep full precision until rendering.
type SecuritySummary struct {
	Symbol        string
	TotalTrades   int
	Buckets       BucketCounts
	NormalScore   float64
	BonusScore    float64
	WeightedScore float64
}
