package main

import (
	"context"
	"time"

	"chirper/internal/handlers"
	"chirper/internal/metrics"
	"chirper/internal/scheduler"
	"chirper/internal/scoring"
	"chirper/internal/store"
	"chirper/internal/trending"
	"chirper/pkg/cache"
	"chirper/pkg/config"
	"chirper/pkg/database"
	"chirper/pkg/logging"
	"chirper/pkg/monitoring"
	"chirper/pkg/server"
	"chirper/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("pulse")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Pulse (Trending API)")

	mongoURI := config.RequireEnv("MONGO_URI")
	mongoDB := config.RequireEnv("MONGO_DB")

	dbConfig := database.DefaultConfig()
	dbConfig.URI = mongoURI
	dbConfig.Database = mongoDB
	conn := database.MustConnect(dbConfig, logger)
	defer func() { _ = conn.Close(context.Background()) }()

	posts := store.NewMongo(conn)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := posts.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to create MongoDB indexes")
		}
		cancel()
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("pulse", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("pulse", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("mongodb", monitoring.DatabaseHealthCheck(conn))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MONGO_URI": mongoURI,
		"MONGO_DB":  mongoDB,
	}))

	// Create custom trending metrics
	serviceMetrics := &metrics.Metrics{
		TrendQueries:    metricsCollector.NewCounter("trend_queries_total", "Trend queries executed", []string{"variant", "status"}),
		QueryDuration:   metricsCollector.NewHistogram("trend_query_duration_seconds", "Trend query duration", []string{"variant"}, nil),
		ScoreRecomputes: metricsCollector.NewCounter("score_recomputes_total", "Popularity score recomputations", []string{"status"}),
		Interactions:    metricsCollector.NewCounter("interactions_total", "Interaction mutations", []string{"kind", "action"}),
		CacheEvents:     metricsCollector.NewCounter("trend_cache_events_total", "Trend cache events", []string{"event"}),
	}

	calculator := scoring.NewCalculator(posts, logger, scoring.Hooks{
		OnRecompute: func(status string) {
			serviceMetrics.ScoreRecomputes.WithLabelValues(status).Inc()
		},
	})

	// Hashtag trend queries fan out across the candidate set, so responses are
	// cached for a short TTL. TREND_CACHE_TTL=0 disables the cache.
	var trendCache *cache.Cache
	if ttl := config.GetEnvDuration("TREND_CACHE_TTL", 30*time.Second); ttl > 0 {
		trendCache = cache.New(cache.Options{TTL: ttl, MaxEntries: 256}, cache.MetricsHooks{
			OnHit:   func(string) { serviceMetrics.CacheEvents.WithLabelValues("hit").Inc() },
			OnMiss:  func(string) { serviceMetrics.CacheEvents.WithLabelValues("miss").Inc() },
			OnStore: func(string) { serviceMetrics.CacheEvents.WithLabelValues("store").Inc() },
		})
	}

	trendingHandler := handlers.NewTrendingHandler(
		trending.NewPostRanker(posts, logger),
		trending.NewHashtagRanker(posts, logger),
		trendCache, logger, serviceMetrics)
	postsHandler := handlers.NewPostsHandler(posts, calculator, logger, serviceMetrics)

	// Periodic full resync repairs scores dropped by best-effort recomputes
	resyncInterval := config.GetEnvDuration("SCORE_RESYNC_INTERVAL", time.Hour)
	taskScheduler := scheduler.NewScheduler(posts, calculator, resyncInterval, logger)
	taskScheduler.Start()
	defer taskScheduler.Stop()

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "pulse", healthChecker, metricsCollector)
	handlers.RegisterRoutes(router, trendingHandler, postsHandler)

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("pulse", "18080")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
