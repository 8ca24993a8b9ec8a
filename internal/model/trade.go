package model

import "time"

// Outcome indicates how a simulated trade resolved.
type Outcome string

const (
	OutcomeTargetHit Outcome = "Target Hit"
	OutcomeOpen      Outcome = "Open Trade"
)

// OverlapType classifies a trade's temporal relationship to the other
// trades of the same security.
type OverlapType string

const (
	NoOverlap           OverlapType = "No Overlap"
	PartiallyOverlapped OverlapType = "Partially Overlapped"
	FullyOverlapped     OverlapType = "Fully Overlapped"
)

// Trade is one simulated position for one security. Exit fields are zero
// while the trade is open; HoldingDays is meaningful only for target hits.
// Overlap is populated once, after all trades for the security are known.
type Trade struct {
	EntryDate   time.Time
	EntryPrice  float64
	TargetPrice float64
	ExitDate    time.Time
	ExitPrice   float64
	Outcome     Outcome
	HoldingDays int
	Overlap     OverlapType
}

// ActiveUntil returns the trade's effective interval end: the exit date for
// resolved trades, or lastKnown for trades still open.
func (t Trade) ActiveUntil(lastKnown time.Time) time.Time {
	if t.Outcome == OutcomeOpen {
		return lastKnown
	}
	return t.ExitDate
}
