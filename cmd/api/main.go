package main

import (
	"fmt"
	"os"

	"impact-engine/internal/api/handlers"
	"impact-engine/internal/api/middleware"
	"impact-engine/internal/config"
	"impact-engine/internal/data"
	"impact-engine/internal/flow"
	"impact-engine/internal/propagation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	tables, err := cfg.Tables(data.DefaultTables())
	if err != nil {
		logger.Fatal("apply table overrides", zap.Error(err))
	}
	scenarios, err := config.LoadScenarios(cfg.ScenarioDir)
	if err != nil {
		logger.Fatal("load scenarios", zap.Error(err))
	}
	companies, err := data.ResolveCompanies()
	if err != nil {
		logger.Fatal("load companies", zap.Error(err))
	}
	cache := data.GetCache()
	logger.Info("engine configured",
		zap.Int("linkages", len(tables.Linkages)),
		zap.Int("scenarios", len(scenarios)),
		zap.Int("companies", len(companies)),
		zap.String("scenario_dir", cfg.ScenarioDir),
		zap.Bool("result_cache", cache != nil))

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	engine := propagation.New(tables)
	h := handlers.New(handlers.Options{
		Engine:    engine,
		Deriver:   flow.NewDeriver(flow.Options{Catalog: engine.Catalog()}),
		Registry:  cfg.Registry(),
		Diffusion: cfg.Diffusion,
		Scenarios: scenarios,
		Companies: companies,
		Cache:     cache,
		Logger:    logger,
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	h.Register(router.Group("/api/v1"))

	// Start server
	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds a production logger; LOG_LEVEL=debug lowers the level.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
