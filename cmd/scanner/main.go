package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StochScan/internal/analyzer"
	"StochScan/internal/collector"
	"StochScan/internal/config"
	"StochScan/internal/export"
	"StochScan/internal/notifier"
	"StochScan/internal/report"
	"StochScan/internal/scheduler"
)

var (
	cfgFile string
	symbols []string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "StochScan - overlap-aware stochastic trade analyzer",
	Long: `StochScan backtests a stochastic mean-reversion rule against daily
bars for a list of securities and ranks them by how favorably the
simulated trades resolved.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one analysis batch and print the ranked summary table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		fetcher, closeFetcher, err := buildFetcher()
		if err != nil {
			return err
		}
		defer closeFetcher()

		runScan(ctx, fetcher, buildNotifier())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled scans until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		fetcher, closeFetcher, err := buildFetcher()
		if err != nil {
			return err
		}
		defer closeFetcher()

		tn := buildNotifier()

		sched := scheduler.New(ctx)
		if err := sched.Register(cfg.Schedule.DailyCron, func(ctx context.Context) {
			runScan(ctx, fetcher, tn)
		}); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		log.Info().Str("cron", cfg.Schedule.DailyCron).Msg("watching; press Ctrl+C to stop")
		<-ctx.Done()
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringSliceVar(&symbols, "symbols", nil, "symbols to scan (overrides config)")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() error {
	// .env is optional; environment variables work without it.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(symbols) > 0 {
		cfg.Symbols = symbols
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(level)
	return nil
}

// buildFetcher wires the configured data source, optionally wrapped in the
// sqlite bar cache.
func buildFetcher() (collector.Fetcher, func(), error) {
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		tv := collector.NewTvFeedFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Username, cfg.DataSource.Password, cfg.Proxy)
		if err := tv.Login(); err != nil {
			return nil, nil, fmt.Errorf("tvfeed login: %w", err)
		}
		fetcher = tv
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}

	closeFetcher := func() {}
	if cfg.Cache.SQLitePath != "" {
		cached, err := collector.NewCachedFetcher(cfg.Cache.SQLitePath, fetcher, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			log.Warn().Err(err).Msg("bar cache unavailable, fetching directly")
		} else {
			fetcher = cached
			closeFetcher = func() { cached.Close() }
		}
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")
	return fetcher, closeFetcher, nil
}

// buildNotifier returns nil when Telegram is not configured.
func buildNotifier() *notifier.TelegramNotifier {
	if cfg.Telegram.BotToken == "" {
		return nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
}

func runScan(ctx context.Context, fetcher collector.Fetcher, tn *notifier.TelegramNotifier) {
	today := time.Now()
	a := analyzer.New(fetcher, cfg.Exchange, cfg.Bars, cfg.Workers)
	res := a.Run(ctx, cfg.Symbols)

	fmt.Println(report.FormatSummaryTable(res.Summaries))
	for _, symbol := range res.Warnings {
		log.Warn().Str("symbol", symbol).Msg("no data")
	}
	for symbol, err := range res.Errors {
		log.Error().Err(err).Str("symbol", symbol).Msg("failed")
	}

	if cfg.Export.Dir != "" {
		for _, s := range res.Summaries {
			path, err := export.Workbook(cfg.Export.Dir, s, res.TradeLogs[s.Symbol], today)
			if err != nil {
				log.Error().Err(err).Str("symbol", s.Symbol).Msg("export failed")
				continue
			}
			log.Info().Str("symbol", s.Symbol).Str("file", path).Msg("exported")
		}
	}

	if tn != nil {
		msg := notifier.FormatScanReport(res.Summaries, len(res.Warnings), len(res.Errors), today)
		if err := tn.SendWithRetry(ctx, msg, 3); err != nil {
			log.Error().Err(err).Msg("send scan report")
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
