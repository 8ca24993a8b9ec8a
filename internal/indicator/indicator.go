package indicator

import "StochScan/internal/model"

const (
	stochWindow  = 4   // raw %K lookback: current bar + 3 prior
	smoothWindow = 3   // trailing SMA applied to raw %K and again to %K
	rsiWindow    = 2   // RSI change-average window
	longMAWindow = 200 // long moving average of closes
)

// Compute derives the full indicator series from chronological daily bars.
// All windows are trailing; a sample stays undefined until enough history
// exists, and degenerate ratios (flat stochastic range, zero average loss)
// yield undefined samples rather than errors.
func Compute(bars []model.Bar) model.IndicatorSeries {
	rawK := stochRaw(bars)
	stochK := rollingMean(rawK, smoothWindow)
	stochD := rollingMean(stochK, smoothWindow)
	rsi := rsi2(bars)
	longMA := closeMA(bars, longMAWindow)

	points := make([]model.IndicatorPoint, len(bars))
	for i := range bars {
		points[i] = model.IndicatorPoint{
			StochK: stochK[i],
			StochD: stochD[i],
			RSI2:   rsi[i],
			LongMA: longMA[i],
		}
	}
	return model.IndicatorSeries{Bars: bars, Points: points}
}

// stochRaw computes the unsmoothed stochastic %K over a 4-bar window.
func stochRaw(bars []model.Bar) []model.Value {
	out := make([]model.Value, len(bars))
	for i := stochWindow - 1; i < len(bars); i++ {
		lo := bars[i].Low
		hi := bars[i].High
		for j := i - stochWindow + 1; j < i; j++ {
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		if hi == lo {
			continue // flat range: %K undefined
		}
		out[i] = model.Defined(100 * (bars[i].Close - lo) / (hi - lo))
	}
	return out
}

// rollingMean is a trailing simple average over values. A window containing
// any undefined sample produces an undefined sample.
func rollingMean(values []model.Value, window int) []model.Value {
	out := make([]model.Value, len(values))
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !values[j].Valid {
				ok = false
				break
			}
			sum += values[j].Float64
		}
		if ok {
			out[i] = model.Defined(sum / float64(window))
		}
	}
	return out
}

// rsi2 computes the 2-period RSI from per-bar close changes. Gains and
// losses are averaged separately over a trailing 2-change window; a zero
// average loss leaves the sample undefined.
func rsi2(bars []model.Bar) []model.Value {
	out := make([]model.Value, len(bars))
	for i := rsiWindow; i < len(bars); i++ {
		var gain, loss float64
		for j := i - rsiWindow + 1; j <= i; j++ {
			change := bars[j].Close - bars[j-1].Close
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(rsiWindow)
		avgLoss := loss / float64(rsiWindow)
		if avgLoss == 0 {
			continue
		}
		rs := avgGain / avgLoss
		out[i] = model.Defined(100 - 100/(1+rs))
	}
	return out
}

// closeMA is the trailing simple average of closes over the given window.
func closeMA(bars []model.Bar, window int) []model.Value {
	out := make([]model.Value, len(bars))
	for i := window - 1; i < len(bars); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += bars[j].Close
		}
		out[i] = model.Defined(sum / float64(window))
	}
	return out
}
