package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jdlee-quant/rebound/internal/artifacts"
	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/external/alpaca"
	"github.com/jdlee-quant/rebound/internal/external/ishares"
	"github.com/jdlee-quant/rebound/internal/external/polygon"
	"github.com/jdlee-quant/rebound/internal/pipeline"
	"github.com/jdlee-quant/rebound/internal/portfolio"
	"github.com/jdlee-quant/rebound/internal/query"
	"github.com/jdlee-quant/rebound/internal/screening"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/internal/strategyconfig"
	"github.com/jdlee-quant/rebound/internal/universe"
	"github.com/jdlee-quant/rebound/pkg/config"
	"github.com/jdlee-quant/rebound/pkg/database"
	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
	"github.com/jdlee-quant/rebound/pkg/redis"
)

// app bundles the collaborators the commands share. Every command goes
// through initApp so the wiring lives in exactly one place.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config

	db    *database.DB  // nil on the in-memory store
	redis *redis.Client // nil when disabled

	store        store.Store
	universe     *universe.Universe
	orchestrator *pipeline.Orchestrator
	query        *query.Service
}

// initOptions tweaks wiring per command.
type initOptions struct {
	capital float64 // fallback capital when no broker and no history
}

// initApp loads configuration and wires the full dependency graph.
// Components that need external credentials degrade gracefully: no
// DATABASE_URL means the in-memory store, no Alpaca keys means no
// order submission.
func initApp(ctx context.Context, opts initOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategy, loaded, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}
	if !loaded {
		log.WithField("file", cfg.StrategyFile).Warn("Strategy file not found, using built-in defaults")
	}
	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"strategy": strategy.Meta.StrategyID,
		"hash":     hash[:12],
	}).Info("Strategy config loaded")

	a := &app{cfg: cfg, log: log, strategy: strategy}

	// Store: PostgreSQL when configured, in-memory otherwise.
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.db = db

		pg := store.NewPostgresStore(db.Pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.store = pg
	} else {
		log.Warn("DATABASE_URL not set, history will not survive the process")
		a.store = store.NewMemoryStore()
	}

	// Redis is optional: it adds response caching and a shared rate
	// limit across processes.
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			a.redis = rc
			cache = redis.NewCache(rc, "rebound")
		}
	}

	// External clients. Polygon gets its own HTTP client so the shared
	// rate limit never throttles broker calls.
	polygonHTTP := httputil.New(log)
	if a.redis != nil {
		limiter := redis.NewRateLimiter(a.redis, "rebound")
		polygonHTTP = polygonHTTP.WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    "polygon",
			Limit:  100,
			Window: time.Minute,
		})
	}
	polygonClient := polygon.NewClient(polygonHTTP, log, cfg.Polygon.APIKey, cfg.Polygon.BaseURL)
	if cache != nil {
		polygonClient = polygonClient.WithCache(cache)
	}

	sharedHTTP := httputil.New(log)
	holdingsClient := ishares.NewClient(sharedHTTP, log, "")
	a.universe = universe.New(holdingsClient, log)

	var broker pipeline.Broker
	if cfg.Alpaca.APIKey != "" && cfg.Alpaca.SecretKey != "" {
		alpacaClient := alpaca.NewClient(sharedHTTP, log, cfg.Alpaca.APIKey, cfg.Alpaca.SecretKey, cfg.Alpaca.BaseURL)
		broker = pipeline.NewAlpacaBroker(alpacaClient)
	} else {
		log.Warn("Alpaca keys not set, orders will not be submitted")
	}

	engine := screening.NewEngine(screening.EngineConfig{
		LookbackDays: strategy.Screening.LookbackDays,
		TopK:         strategy.Screening.TopK,
	}, log)

	manager := portfolio.NewManager(portfolio.Config{
		TopK:          strategy.Screening.TopK,
		SellThreshold: strategy.SellRule.Threshold,
		MinGainFloor:  strategy.SellRule.MinGainFloor,
		TopN:          strategy.SellRule.TopN,
		Top5Selection: contracts.Top5Selection(strategy.SellRule.Top5Selection),
		Sizing: portfolio.SizingConfig{
			Mode:              strategy.Sizing.Mode,
			FixedDollarAmount: strategy.Sizing.FixedDollarAmount,
			MaxPositions:      strategy.Sizing.MaxPositions,
			CashReserve:       strategy.Sizing.CashReserve,
		},
	}, log)

	var writer *artifacts.Writer
	if cfg.Artifacts.Enabled {
		fsStore, err := artifacts.NewFSStore(cfg.Artifacts.Dir)
		if err != nil {
			return nil, fmt.Errorf("open artifacts dir: %w", err)
		}
		writer = artifacts.NewWriter(fsStore, log)
	}

	provider := pipeline.NewPolygonProvider(polygonClient, a.universe)

	a.orchestrator = pipeline.NewOrchestrator(pipeline.Config{
		Universe:       a.universe,
		Prices:         provider,
		Quotes:         provider,
		Broker:         broker,
		Screener:       engine,
		Manager:        manager,
		Store:          a.store,
		Artifacts:      writer,
		LookbackDays:   strategy.Screening.LookbackDays,
		InitialCapital: opts.capital,
	}, log)

	a.query = query.NewService(a.store, query.Config{
		Threshold:     strategy.SellRule.Threshold,
		TopN:          strategy.SellRule.TopN,
		Top5Selection: contracts.Top5Selection(strategy.SellRule.Top5Selection),
	}, log)

	return a, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
