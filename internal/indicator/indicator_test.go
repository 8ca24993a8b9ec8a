package indicator

import (
	"math"
	"testing"
	"time"

	"StochScan/internal/model"
)

func barsFromCloses(closes []float64, low, high float64) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  c,
			High:  high,
			Low:   low,
			Close: c,
		}
	}
	return bars
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute_Stochastic(t *testing.T) {
	// Constant 10..20 range makes raw %K = 10 * (close - 10).
	closes := []float64{12, 14, 16, 18, 15, 13, 11, 17, 19, 16}
	series := Compute(barsFromCloses(closes, 10, 20))

	if len(series.Points) != len(closes) {
		t.Fatalf("expected %d points, got %d", len(closes), len(series.Points))
	}
	for i := 0; i < 5; i++ {
		if series.Points[i].StochK.Valid {
			t.Errorf("stochK[%d] should be undefined", i)
		}
	}
	for i := 0; i < 7; i++ {
		if series.Points[i].StochD.Valid {
			t.Errorf("stochD[%d] should be undefined", i)
		}
	}

	tests := []struct {
		idx  int
		k    float64
		d    float64
		hasD bool
	}{
		{5, 160.0 / 3, 0, false},
		{6, 30, 0, false},
		{7, 110.0 / 3, 40, true},
		{8, 170.0 / 3, 370.0 / 9, true},
		{9, 220.0 / 3, 500.0 / 9, true},
	}
	for _, tt := range tests {
		p := series.Points[tt.idx]
		if !p.StochK.Valid || !approx(p.StochK.Float64, tt.k) {
			t.Errorf("stochK[%d]: expected %.6f, got %+v", tt.idx, tt.k, p.StochK)
		}
		if tt.hasD && (!p.StochD.Valid || !approx(p.StochD.Float64, tt.d)) {
			t.Errorf("stochD[%d]: expected %.6f, got %+v", tt.idx, tt.d, p.StochD)
		}
	}
}

func TestCompute_FlatRangeUndefined(t *testing.T) {
	// All bars identical: zero stochastic range, zero price changes.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10
	}
	series := Compute(barsFromCloses(closes, 10, 10))
	for i, p := range series.Points {
		if p.StochK.Valid || p.StochD.Valid {
			t.Errorf("stoch[%d] should be undefined for a flat series", i)
		}
		if p.RSI2.Valid {
			t.Errorf("rsi2[%d] should be undefined with zero average loss", i)
		}
	}
}

func TestCompute_RSI2(t *testing.T) {
	closes := []float64{10, 11, 13, 12, 12, 15}
	series := Compute(barsFromCloses(closes, 5, 50))

	tests := []struct {
		idx   int
		valid bool
		want  float64
	}{
		{0, false, 0}, // no change yet
		{1, false, 0}, // only one change
		{2, false, 0}, // both changes are gains: zero average loss
		{3, true, 100 - 100.0/3},
		{4, true, 0},
		{5, false, 0}, // zero average loss again
	}
	for _, tt := range tests {
		got := series.Points[tt.idx].RSI2
		if got.Valid != tt.valid {
			t.Errorf("rsi2[%d]: valid=%v, expected %v", tt.idx, got.Valid, tt.valid)
			continue
		}
		if tt.valid && !approx(got.Float64, tt.want) {
			t.Errorf("rsi2[%d]: expected %.6f, got %.6f", tt.idx, tt.want, got.Float64)
		}
	}
}

func TestCompute_LongMA(t *testing.T) {
	closes := make([]float64, 201)
	for i := range closes {
		closes[i] = 4
	}
	closes[200] = 8
	series := Compute(barsFromCloses(closes, 1, 10))

	if series.Points[198].LongMA.Valid {
		t.Error("longMA[198] should be undefined before 200 bars")
	}
	if ma := series.Points[199].LongMA; !ma.Valid || !approx(ma.Float64, 4) {
		t.Errorf("longMA[199]: expected 4, got %+v", ma)
	}
	if ma := series.Points[200].LongMA; !ma.Valid || !approx(ma.Float64, 4.02) {
		t.Errorf("longMA[200]: expected 4.02, got %+v", ma)
	}
}

func TestCompute_ShortSeries(t *testing.T) {
	series := Compute(barsFromCloses([]float64{10, 11, 12}, 9, 13))
	for i, p := range series.Points {
		if p.StochK.Valid || p.StochD.Valid || p.LongMA.Valid {
			t.Errorf("point[%d]: expected all window indicators undefined", i)
		}
	}
	if Compute(nil).Points != nil && len(Compute(nil).Points) != 0 {
		t.Error("expected empty output for empty input")
	}
}
