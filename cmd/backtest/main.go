// Command backtest wires configuration, a data provider, a strategy, and
// the simulator together and runs one historical backtest to completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/calendar"
	"jax-backtest/internal/clock"
	"jax-backtest/internal/commission"
	"jax-backtest/internal/config"
	"jax-backtest/internal/ledger"
	"jax-backtest/internal/market"
	"jax-backtest/internal/marketdata"
	"jax-backtest/internal/platform/logging"
	"jax-backtest/internal/provider"
	"jax-backtest/internal/simulator"
	"jax-backtest/internal/stats"
	"jax-backtest/internal/store"
	"jax-backtest/internal/strategy/examples"
)

func main() {
	tickers := flag.String("tickers", "", "comma-separated list of tickers")
	startFlag := flag.String("start", "", "start date, YYYY-MM-DD")
	endFlag := flag.String("end", "", "end date, YYYY-MM-DD")
	fixtureDir := flag.String("fixtures", "", "CSV fixture directory (uses CSVProvider); if empty, uses HTTPProvider")
	httpBaseURL := flag.String("http-base-url", "", "base URL for HTTPProvider")
	redisURL := flag.String("redis-url", "localhost:6379", "Redis address for HTTPProvider caching")
	startingCash := flag.Float64("cash", 100000, "starting cash")
	outputDir := flag.String("output-dir", "", "directory to write equity.csv and events.json to (optional)")
	dbDSN := flag.String("db-dsn", "", "pgx5:// DSN to persist the run to Postgres (optional)")
	flag.Parse()

	cfg, err := buildConfig(*tickers, *startFlag, *endFlag)
	if err != nil {
		log.Fatalf("backtest: invalid configuration: %v", err)
	}

	ctx := context.Background()
	ctx = logging.WithRunInfo(ctx, logging.RunInfo{Ticker: strings.Join(cfg.Tickers, ",")})

	dataProvider, closeProvider, err := buildProvider(*fixtureDir, *httpBaseURL, *redisURL)
	if err != nil {
		log.Fatalf("backtest: build data provider: %v", err)
	}
	if closeProvider != nil {
		defer closeProvider()
	}

	loc := time.UTC
	cal := calendar.NYSE()
	clk := clock.New(cal, loc, cfg.StartDate, cfg.EndDate, cfg.WarmupDuration, cfg.Resolution)
	manager := marketdata.NewManager(dataProvider, toMarketdataResolution(cfg.Resolution), 20)
	mkt := market.New(ctx, clk, manager)

	account := ledger.NewAccount(decimal.NewFromFloat(*startingCash))
	b := brokerage.New(account, mkt, commission.PerShare{Rate: decimal.NewFromFloat(0.005)}, nil)

	strat := examples.NewMACrossover(cfg.Tickers[0], 10, 30, decimal.NewFromInt(10))
	stat := stats.New()

	sim := simulator.New(mkt, b, strat, stat)
	report, err := sim.Run(252)
	if err != nil {
		logging.Fatal(ctx, "simulation_failed", err)
		os.Exit(1)
	}

	printSummary(report)

	if *outputDir != "" {
		if err := report.WriteArtifacts(*outputDir); err != nil {
			log.Fatalf("backtest: write report artifacts: %v", err)
		}
	}
	if *dbDSN != "" {
		if err := persistRun(ctx, *dbDSN, cfg, report); err != nil {
			log.Fatalf("backtest: persist run: %v", err)
		}
	}
}

func persistRun(ctx context.Context, dsn string, cfg config.Simulation, report stats.Report) error {
	s, err := store.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(dsn); err != nil {
		return err
	}
	runID, err := s.CreateRun(ctx, cfg.Tickers, cfg.StartDate, cfg.EndDate, cfg.Resolution)
	if err != nil {
		return err
	}
	return s.SaveReport(ctx, runID, report)
}

func buildConfig(tickers, start, end string) (config.Simulation, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return config.Simulation{}, fmt.Errorf("parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return config.Simulation{}, fmt.Errorf("parse end date: %w", err)
	}

	cfg := config.Simulation{
		Tickers:    strings.Split(tickers, ","),
		StartDate:  startDate,
		EndDate:    endDate,
		Resolution: clock.Day,
	}
	if err := cfg.Validate(); err != nil {
		return config.Simulation{}, err
	}
	return cfg, nil
}

func buildProvider(fixtureDir, httpBaseURL, redisURL string) (marketdata.DataProvider, func(), error) {
	if fixtureDir != "" {
		return provider.NewCSVProvider(fixtureDir), nil, nil
	}

	p, err := provider.NewHTTPProvider(provider.HTTPProviderConfig{
		BaseURL:  httpBaseURL,
		RedisURL: redisURL,
	})
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

func toMarketdataResolution(r clock.Resolution) marketdata.Resolution {
	if r == clock.Minute {
		return marketdata.Minute
	}
	return marketdata.Day
}

func printSummary(report stats.Report) {
	fmt.Fprintf(os.Stdout, "submitted=%d filled=%d rejected=%d expired=%d\n",
		report.StatusCounts[brokerage.Submitted],
		report.StatusCounts[brokerage.Filled],
		report.StatusCounts[brokerage.Rejected],
		report.StatusCounts[brokerage.Expired],
	)
	fmt.Fprintf(os.Stdout, "total_commissions=%s max_drawdown=%s total_return=%s sharpe=%.3f\n",
		report.TotalCommissions, report.MaxDrawdown, report.TotalReturn, report.SharpeRatio)
}
