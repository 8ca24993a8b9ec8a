package analyzer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"StochScan/internal/collector"
	"StochScan/internal/indicator"
	"StochScan/internal/model"
	"StochScan/internal/overlap"
	"StochScan/internal/scorer"
	"StochScan/internal/simulator"
)

// Analyzer runs the four-stage pipeline over a batch of securities.
type Analyzer struct {
	Fetcher  collector.Fetcher
	Exchange string
	BarCount int
	Workers  int
}

// Result collects one batch run. Summaries are ranked by weighted score
// descending; per-symbol failures never abort the batch.
type Result struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Summaries []model.SecuritySummary
	TradeLogs map[string][]model.Trade
	Warnings  []string         // securities skipped for missing data
	Errors    map[string]error // retrieval failures keyed by symbol
}

// New creates an Analyzer. Workers below 1 defaults to 4.
func New(fetcher collector.Fetcher, exchange string, barCount, workers int) *Analyzer {
	if workers < 1 {
		workers = 4
	}
	if barCount < 1 {
		barCount = 1500
	}
	return &Analyzer{
		Fetcher:  fetcher,
		Exchange: exchange,
		BarCount: barCount,
		Workers:  workers,
	}
}

// AnalyzeBars applies the sequential pipeline for one security:
// indicators, trade simulation, overlap classification, scoring.
func AnalyzeBars(symbol string, bars []model.Bar) ([]model.Trade, model.SecuritySummary) {
	series := indicator.Compute(bars)
	trades := simulator.Simulate(series)
	overlap.Classify(trades, model.LastDate(bars))
	return trades, scorer.Summarize(symbol, trades)
}

type workItem struct {
	symbol  string
	trades  []model.Trade
	summary model.SecuritySummary
	missing bool
	err     error
}

// Run fetches and analyzes every symbol, fanning securities out across a
// bounded worker pool. Each security's pipeline runs to completion on one
// worker; cancellation is honored only between securities.
func (a *Analyzer) Run(ctx context.Context, symbols []string) *Result {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		TradeLogs: make(map[string][]model.Trade),
		Errors:    make(map[string]error),
	}
	log.Info().Str("run_id", res.RunID).Int("symbols", len(symbols)).
		Str("source", a.Fetcher.Name()).Msg("starting scan")

	jobs := make(chan string)
	items := make(chan workItem)

	var wg sync.WaitGroup
	for w := 0; w < a.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				items <- a.analyzeSymbol(symbol)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range symbols {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(items)
	}()

	for item := range items {
		switch {
		case item.err != nil:
			log.Error().Err(item.err).Str("symbol", item.symbol).Msg("retrieval failed")
			res.Errors[item.symbol] = item.err
		case item.missing:
			log.Warn().Str("symbol", item.symbol).Msg("no data, skipping")
			res.Warnings = append(res.Warnings, item.symbol)
		default:
			res.Summaries = append(res.Summaries, item.summary)
			res.TradeLogs[item.symbol] = item.trades
		}
	}

	sort.SliceStable(res.Summaries, func(i, j int) bool {
		return res.Summaries[i].WeightedScore > res.Summaries[j].WeightedScore
	})
	res.Elapsed = time.Since(res.StartedAt)
	log.Info().Str("run_id", res.RunID).Int("analyzed", len(res.Summaries)).
		Int("skipped", len(res.Warnings)).Int("failed", len(res.Errors)).
		Dur("elapsed", res.Elapsed).Msg("scan finished")
	return res
}

func (a *Analyzer) analyzeSymbol(symbol string) workItem {
	bars, err := a.Fetcher.FetchDailyBars(symbol, a.Exchange, a.BarCount)
	if err != nil {
		return workItem{symbol: symbol, err: err}
	}
	if len(bars) == 0 {
		return workItem{symbol: symbol, missing: true}
	}
	trades, summary := AnalyzeBars(symbol, bars)
	log.Debug().Str("symbol", symbol).Int("bars", len(bars)).
		Int("trades", len(trades)).Float64("weighted", summary.WeightedScore).
		Msg("symbol analyzed")
	return workItem{symbol: symbol, trades: trades, summary: summary}
}
