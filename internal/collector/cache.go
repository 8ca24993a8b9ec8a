package collector

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StochScan/internal/model"
)

// CachedFetcher is a read-through sqlite cache around another Fetcher.
// Repeated scans within the TTL are served from disk instead of hitting the
// data source again. Only raw input bars are cached, never results.
type CachedFetcher struct {
	inner Fetcher
	db    *sql.DB
	ttl   time.Duration
	mu    sync.Mutex
}

// NewCachedFetcher opens (or creates) the cache database and runs
// migrations.
func NewCachedFetcher(dbPath string, inner Fetcher, ttl time.Duration) (*CachedFetcher, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so parallel workers can read while one writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &CachedFetcher{inner: inner, db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Dur("ttl", ttl).Msg("bar cache opened")
	return c, nil
}

func (c *CachedFetcher) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol   TEXT NOT NULL,
			exchange TEXT NOT NULL,
			date     INTEGER NOT NULL,
			open     REAL,
			high     REAL,
			low      REAL,
			close    REAL,
			PRIMARY KEY (symbol, exchange, date)
		)`,
		`CREATE TABLE IF NOT EXISTS fetches (
			symbol     TEXT NOT NULL,
			exchange   TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			bar_count  INTEGER NOT NULL,
			PRIMARY KEY (symbol, exchange)
		)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *CachedFetcher) Name() string { return c.inner.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyBars(symbol, exchange string, n int) ([]model.Bar, error) {
	if bars, ok := c.lookup(symbol, exchange, n); ok {
		log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("cache hit")
		return bars, nil
	}

	bars, err := c.inner.FetchDailyBars(symbol, exchange, n)
	if err != nil {
		return nil, err
	}
	if err := c.store(symbol, exchange, bars); err != nil {
		// A broken cache must not fail the scan.
		log.Warn().Err(err).Str("symbol", symbol).Msg("cache store failed")
	}
	return bars, nil
}

// Close releases the underlying database.
func (c *CachedFetcher) Close() error {
	return c.db.Close()
}

func (c *CachedFetcher) lookup(symbol, exchange string, n int) ([]model.Bar, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fetchedAt int64
	var barCount int
	err := c.db.QueryRow(
		`SELECT fetched_at, bar_count FROM fetches WHERE symbol = ? AND exchange = ?`,
		symbol, exchange,
	).Scan(&fetchedAt, &barCount)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl || barCount < n {
		return nil, false
	}

	rows, err := c.db.Query(
		`SELECT date, open, high, low, close FROM bars
		 WHERE symbol = ? AND exchange = ? ORDER BY date`,
		symbol, exchange,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var ts int64
		var b model.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close); err != nil {
			return nil, false
		}
		b.Date = time.Unix(ts, 0)
		bars = append(bars, b)
	}
	if rows.Err() != nil {
		return nil, false
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, true
}

func (c *CachedFetcher) store(symbol, exchange string, bars []model.Bar) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bars WHERE symbol = ? AND exchange = ?`, symbol, exchange); err != nil {
		return err
	}
	for _, b := range bars {
		if _, err := tx.Exec(
			`INSERT INTO bars (symbol, exchange, date, open, high, low, close) VALUES (?,?,?,?,?,?,?)`,
			symbol, exchange, b.Date.Unix(), b.Open, b.High, b.Low, b.Close,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO fetches (symbol, exchange, fetched_at, bar_count) VALUES (?,?,?,?)
		 ON CONFLICT (symbol, exchange) DO UPDATE SET fetched_at = excluded.fetched_at, bar_count = excluded.bar_count`,
		symbol, exchange, time.Now().Unix(), len(bars),
	); err != nil {
		return err
	}
	return tx.Commit()
}
