package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"airlinelookup/internal/cache"
	"airlinelookup/internal/classify"
	"airlinelookup/internal/config"
	"airlinelookup/internal/db"
	"airlinelookup/internal/handlers/api"
	"airlinelookup/internal/jobs"
	"airlinelookup/internal/lookup"
	"airlinelookup/internal/metrics"
	"airlinelookup/internal/server"
	"airlinelookup/internal/sources"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	ctx := context.Background()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	initLogger(cfg)

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	labels, regions := buildTables(yamlCfg)

	deps := make(map[string]api.Pinger)

	// Lookup statistics (optional)
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		slog.Info("migrations completed successfully")
		deps["database"] = database
	} else {
		slog.Info("lookup statistics disabled, set DATABASE_URL to enable")
	}
	metrics.Init(database)

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	// Response cache and rate limiter storage
	var (
		responseCache  cache.Cache
		limiterStorage fiber.Storage
	)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()
		responseCache = rc
		limiterStorage = rc.Storage()
		deps["cache"] = rc
		slog.Info("using redis cache", "ttl", cfg.CacheTTL)
	} else {
		mc := cache.NewMemory(cfg.CacheCapacity, cfg.CacheTTL)
		responseCache = mc
		go jobs.NewCacheSweeper(mc, cfg.CacheSweepInterval).Start(jobCtx)
		slog.Info("using in-memory cache", "capacity", cfg.CacheCapacity, "ttl", cfg.CacheTTL)
	}

	// Upstream sources
	opts := func(baseURL string) sources.Options {
		return sources.Options{BaseURL: baseURL, Timeout: cfg.SourceTimeout, UserAgent: cfg.UserAgent}
	}

	resolvers := []sources.Resolver{sources.NewWikipedia(opts(cfg.WikipediaURL), labels)}
	targets := []jobs.Target{
		{Source: sources.SourceWikipedia, URL: cfg.WikipediaURL},
		{Source: sources.SourceAirfleets, URL: cfg.AirfleetsURL},
		{Source: sources.SourcePlanespotters, URL: cfg.PlanespottersURL},
	}
	if cfg.AviationStackKey != "" {
		resolvers = append(resolvers, sources.NewAviationStack(cfg.AviationStackKey, opts(cfg.AviationStackURL)))
		targets = append(targets, jobs.Target{Source: sources.SourceAviationStack, URL: cfg.AviationStackURL})
	} else {
		slog.Info("aviationstack disabled, set AVIATIONSTACK_API_KEY to enable")
	}
	if cfg.EnableAirlineUpdate {
		resolvers = append(resolvers, sources.NewAirlineUpdate(opts(cfg.AirlineUpdateURL), labels))
		targets = append(targets, jobs.Target{Source: sources.SourceAirlineUpdate, URL: cfg.AirlineUpdateURL})
	}

	svc := lookup.NewService(lookup.Config{
		Resolvers: resolvers,
		Enrichers: []sources.Enricher{
			sources.NewAirfleets(opts(cfg.AirfleetsURL)),
			sources.NewPlanespotters(opts(cfg.PlanespottersURL)),
		},
		Cache:   responseCache,
		Regions: regions,
	})

	if cfg.UpstreamCheckInterval > 0 {
		checker := jobs.NewUpstreamChecker(targets, cfg.UpstreamCheckInterval, 10*time.Second, cfg.UserAgent)
		go checker.Start(jobCtx)
	}

	srv := server.New(cfg, limiterStorage)
	srv.RegisterRoutes(svc, deps)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	slog.Info("server started", "addr", cfg.ServerAddr, "env", cfg.Env, "resolvers", len(resolvers))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancelJobs()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	slog.Info("server exited")
}

// initLogger installs the default slog logger from LOG_LEVEL and LOG_FORMAT.
func initLogger(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}

// buildTables extends the built-in label and region tables with config.yaml.
// Invalid label rules are logged and skipped.
func buildTables(yamlCfg *config.YAMLConfig) (*sources.LabelTable, *classify.RegionTable) {
	var rules []sources.LabelRule
	for _, lc := range yamlCfg.LabelRules() {
		rule, err := sources.NewLabelRule(lc.Match, lc.Field)
		if err != nil {
			slog.Warn("skipping label rule", "match", lc.Match, "field", lc.Field, "error", err)
			continue
		}
		rules = append(rules, rule)
	}

	labels := sources.DefaultLabels
	if len(rules) > 0 {
		labels = labels.Extend(rules)
		slog.Info("loaded label rules", "count", len(rules))
	}

	regions := classify.DefaultRegions
	if extra := yamlCfg.RegionKeywords(); len(extra) > 0 {
		regions = regions.Extend(extra)
		slog.Info("loaded region keywords", "regions", len(extra))
	}
	return labels, regions
}
