package model

import "time"

// Bar represents one daily OHLC record for a security.
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// LastDate returns the latest bar date in the (chronological) sequence,
// or the zero time when the sequence is empty.
func LastDate(bars []Bar) time.Time {
	if len(bars) == 0 {
		return time.Time{}
	}
	return bars[len(bars)-1].Date
}
