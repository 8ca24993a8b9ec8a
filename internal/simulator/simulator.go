package simulator

import (
	"math"
	"time"

	"StochScan/internal/model"
)

const (
	stochEntryMax = 20   // both %K and %D must be below this
	rsiEntryMax   = 15   // RSI(2) must be below this
	targetFactor  = 1.05 // profit target: 5% above entry
)

// Simulate scans the indicator series for entry signals and forward-scans
// each entry for a target-hit exit. Every qualifying bar opens exactly one
// trade; positions overlap freely. Trades come back in entry-date order.
func Simulate(series model.IndicatorSeries) []model.Trade {
	var trades []model.Trade
	for i, p := range series.Points {
		if !entrySignal(series.Bars[i], p) {
			continue
		}
		trades = append(trades, openTrade(series.Bars, i))
	}
	return trades
}

// entrySignal requires every indicator to be defined; a bar with any
// undefined required indicator never triggers.
func entrySignal(bar model.Bar, p model.IndicatorPoint) bool {
	return p.StochK.Below(stochEntryMax) &&
		p.StochD.Below(stochEntryMax) &&
		p.RSI2.Below(rsiEntryMax) &&
		p.LongMA.Valid && bar.Close > p.LongMA.Float64
}

// openTrade builds the trade for the entry at index i, scanning strictly
// later bars for the first high at or above the target.
func openTrade(bars []model.Bar, i int) model.Trade {
	entry := bars[i]
	trade := model.Trade{
		EntryDate:   entry.Date,
		EntryPrice:  entry.Close,
		TargetPrice: round2(entry.Close * targetFactor),
		Outcome:     model.OutcomeOpen,
	}
	for j := i + 1; j < len(bars); j++ {
		if bars[j].High >= trade.TargetPrice {
			trade.ExitDate = bars[j].Date
			trade.ExitPrice = bars[j].High
			trade.Outcome = model.OutcomeTargetHit
			trade.HoldingDays = calendarDays(entry.Date, bars[j].Date)
			break
		}
	}
	return trade
}

// calendarDays is the whole-day difference between two bar dates,
// insensitive to the bars' clock time and zone.
func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
