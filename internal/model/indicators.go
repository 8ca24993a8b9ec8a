package model

// Value is an indicator sample that may be undefined (insufficient rolling
// history, zero-range window, zero average loss). An undefined Value never
// satisfies a threshold comparison.
type Value struct {
	Float64 float64
	Valid   bool
}

// Defined wraps a concrete indicator sample.
func Defined(v float64) Value { return Value{Float64: v, Valid: true} }

// Undefined is the sentinel for a missing indicator sample.
func Undefined() Value { return Value{} }

// Below reports whether the value is defined and strictly less than x.
func (v Value) Below(x float64) bool { return v.Valid && v.Float64 < x }

// Above reports whether the value is defined and strictly greater than x.
func (v Value) Above(x float64) bool { return v.Valid && v.Float64 > x }

// IndicatorPoint holds the derived values for one bar.
type IndicatorPoint struct {
	StochK Value
	StochD Value
	RSI2   Value
	LongMA Value
}

// IndicatorSeries is the Indicator Engine output: the raw bars plus a
// parallel sequence of derived points, aligned by index.
type IndicatorSeries struct {
	Bars   []Bar
	Points []IndicatorPoint
}
