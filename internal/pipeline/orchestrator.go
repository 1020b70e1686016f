// Package pipeline coordinates one full engine run: universe, price
// history, screening, portfolio transitions, persistence and CSV
// artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jdlee-quant/rebound/internal/artifacts"
	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/portfolio"
	"github.com/jdlee-quant/rebound/internal/screening"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/internal/universe"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// historyWorkers bounds concurrent per-ticker history fetches.
const historyWorkers = 8

// Orchestrator coordinates the staged daily run.
type Orchestrator struct {
	universe  *universe.Universe
	prices    PriceProvider
	quotes    QuoteProvider
	broker    Broker // nil for dry runs without an account
	screener  *screening.Engine
	manager   *portfolio.Manager
	store     store.Store
	artifacts *artifacts.Writer // nil disables CSV output
	logger    *logger.Logger

	lookbackDays   int
	initialCapital float64
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Universe       *universe.Universe
	Prices         PriceProvider
	Quotes         QuoteProvider
	Broker         Broker
	Screener       *screening.Engine
	Manager        *portfolio.Manager
	Store          store.Store
	Artifacts      *artifacts.Writer
	LookbackDays   int
	InitialCapital float64
}

// NewOrchestrator creates a new pipeline orchestrator.
func NewOrchestrator(cfg Config, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		universe:       cfg.Universe,
		prices:         cfg.Prices,
		quotes:         cfg.Quotes,
		broker:         cfg.Broker,
		screener:       cfg.Screener,
		manager:        cfg.Manager,
		store:          cfg.Store,
		artifacts:      cfg.Artifacts,
		logger:         log,
		lookbackDays:   cfg.LookbackDays,
		initialCapital: cfg.InitialCapital,
	}
}

// RunConfig holds the parameters of one run.
type RunConfig struct {
	AsOf   time.Time
	DryRun bool // skip order submission
}

// RunResult holds the outcome of one run.
type RunResult struct {
	AsOf            time.Time
	Duplicate       bool // a run for this date already existed; nothing was changed
	Screening       *contracts.ScreeningResult
	Snapshot        *contracts.PortfolioSnapshot
	CompletedStages []string
	Duration        time.Duration
}

// Run executes the full pipeline for one as-of date. A date that is
// already recorded returns a successful no-op result. Any failure
// before persistence leaves the history untouched.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{AsOf: cfg.AsOf}

	o.logger.WithFields(map[string]interface{}{
		"as_of":   cfg.AsOf.Format("2006-01-02"),
		"dry_run": cfg.DryRun,
	}).Info("Starting pipeline run")

	// S0: idempotency guard.
	exists, err := o.store.HasRun(ctx, cfg.AsOf)
	if err != nil {
		return result, fmt.Errorf("S0 idempotency check failed: %w", err)
	}
	if exists {
		o.logger.WithField("as_of", cfg.AsOf.Format("2006-01-02")).Info("Run already recorded, skipping")
		result.Duplicate = true
		result.Duration = time.Since(startTime)
		return result, nil
	}
	result.CompletedStages = append(result.CompletedStages, "S0:Guard")

	// S1: price history for the whole universe.
	histories, err := o.fetchHistories(ctx, cfg.AsOf)
	if err != nil {
		return result, fmt.Errorf("S1 history fetch failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "S1:History")

	// S2: drawdown ranking.
	candidates, err := o.screener.Screen(ctx, histories, cfg.AsOf)
	if err != nil {
		return result, fmt.Errorf("S2 screening failed: %w", err)
	}
	screeningResult := &contracts.ScreeningResult{
		AsOf:       cfg.AsOf,
		Candidates: *candidates,
		TopK:       o.manager.TopK(),
	}
	result.Screening = screeningResult
	result.CompletedStages = append(result.CompletedStages, "S2:Screening")

	// S3: current quotes for position refresh.
	quotes, err := o.quotes.Quotes(ctx, cfg.AsOf)
	if err != nil {
		// Missing quotes degrade to stale positions, not a dead run.
		o.logger.WithError(err).Warn("Quote snapshot failed, positions will go stale")
		quotes = map[string]contracts.Quote{}
	}
	result.CompletedStages = append(result.CompletedStages, "S3:Quotes")

	// S4: portfolio state transition.
	prior, err := o.store.LatestSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("S4 snapshot load failed: %w", err)
	}

	cash, err := o.availableCash(ctx, prior)
	if err != nil {
		return result, fmt.Errorf("S4 cash lookup failed: %w", err)
	}

	next, err := o.manager.Evaluate(ctx, portfolio.Input{
		Prior:      prior,
		Candidates: candidates,
		Quotes:     quotes,
		Cash:       cash,
		AsOf:       cfg.AsOf,
	})
	if err != nil {
		return result, fmt.Errorf("S4 evaluation failed: %w", err)
	}
	result.Snapshot = next
	result.CompletedStages = append(result.CompletedStages, "S4:Portfolio")

	// S5: order submission.
	if cfg.DryRun || o.broker == nil {
		o.logger.Info("Skipping S5:Orders (dry run)")
	} else {
		if err := o.submitOrders(ctx, prior, next); err != nil {
			return result, fmt.Errorf("S5 order submission failed: %w", err)
		}
		result.CompletedStages = append(result.CompletedStages, "S5:Orders")
	}

	// S6: all-or-nothing persistence.
	if err := o.store.AppendRun(ctx, next, screeningResult); err != nil {
		if contracts.IsDuplicateRun(err) {
			// Another invocation won the race; this run is a no-op.
			o.logger.WithField("as_of", cfg.AsOf.Format("2006-01-02")).Info("Run recorded concurrently, skipping")
			result.Duplicate = true
			result.Duration = time.Since(startTime)
			return result, nil
		}
		return result, fmt.Errorf("S6 persistence failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "S6:Persist")

	// S7: CSV artifacts. Failures here do not invalidate the persisted
	// run; the files regenerate on the next successful write.
	if o.artifacts != nil {
		if err := o.artifacts.WriteAll(ctx, screeningResult, next); err != nil {
			o.logger.WithError(err).Warn("Artifact write failed")
		} else {
			result.CompletedStages = append(result.CompletedStages, "S7:Artifacts")
		}
	}

	result.Duration = time.Since(startTime)
	o.logger.WithFields(map[string]interface{}{
		"as_of":     cfg.AsOf.Format("2006-01-02"),
		"duration":  result.Duration.Seconds(),
		"stages":    len(result.CompletedStages),
		"positions": next.Count(),
	}).Info("Pipeline run completed")
	return result, nil
}

// fetchHistories loads daily close series for the whole universe with
// bounded concurrency. Per-ticker provider failures are tolerated and
// surface later as screening exclusions; a provider that fails for
// every single ticker aborts the run.
func (o *Orchestrator) fetchHistories(ctx context.Context, asOf time.Time) (map[string]*contracts.PriceSeries, error) {
	symbols := o.universe.Symbols()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		histories = make(map[string]*contracts.PriceSeries, len(symbols))
		failures  int
	)
	sem := make(chan struct{}, historyWorkers)

	for _, ticker := range symbols {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(ticker string) {
			defer wg.Done()
			defer func() { <-sem }()

			series, err := o.prices.DailyCloses(ctx, ticker, o.lookbackDays, asOf)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				if !errors.Is(err, contracts.ErrProviderUnavailable) {
					o.logger.WithField("ticker", ticker).WithError(err).Debug("History fetch failed")
				}
				return
			}
			histories[ticker] = series
		}(ticker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(histories) == 0 && failures > 0 {
		return nil, fmt.Errorf("%w: all %d history fetches failed", contracts.ErrProviderUnavailable, failures)
	}

	o.logger.WithFields(map[string]interface{}{
		"fetched": len(histories),
		"failed":  failures,
	}).Info("Price histories loaded")
	return histories, nil
}

// availableCash prefers the live brokerage balance; without a broker
// the prior snapshot's cash carries forward, seeded from the configured
// initial capital on the first run.
func (o *Orchestrator) availableCash(ctx context.Context, prior *contracts.PortfolioSnapshot) (float64, error) {
	if o.broker != nil {
		return o.broker.AvailableCash(ctx)
	}
	if prior != nil {
		return prior.Cash, nil
	}
	return o.initialCapital, nil
}

// submitOrders fans the evaluated transitions out to the broker: sells
// for batch-closed positions, notional buys for newly opened ones.
func (o *Orchestrator) submitOrders(ctx context.Context, prior, next *contracts.PortfolioSnapshot) error {
	for _, closed := range next.Closed {
		if err := o.broker.Sell(ctx, closed.Ticker, closed.Quantity); err != nil {
			return fmt.Errorf("sell %s: %w", closed.Ticker, err)
		}
	}

	for _, pos := range next.Positions {
		if prior != nil {
			if _, held := prior.GetPosition(pos.Ticker); held {
				continue
			}
		}
		if err := o.broker.Buy(ctx, pos.Ticker, pos.CostBasis()); err != nil {
			return fmt.Errorf("buy %s: %w", pos.Ticker, err)
		}
	}
	return nil
}
