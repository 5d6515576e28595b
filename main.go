package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/analysis"
	"github.com/labelscan/labelscan-engine/pkg/config"
	"github.com/labelscan/labelscan-engine/pkg/database"
	"github.com/labelscan/labelscan-engine/pkg/handlers"
	"github.com/labelscan/labelscan-engine/pkg/kb"
	"github.com/labelscan/labelscan-engine/pkg/llm"
	"github.com/labelscan/labelscan-engine/pkg/logging"
	labelmcp "github.com/labelscan/labelscan-engine/pkg/mcp"
	"github.com/labelscan/labelscan-engine/pkg/mcp/tools"
	"github.com/labelscan/labelscan-engine/pkg/middleware"
	"github.com/labelscan/labelscan-engine/pkg/oracle"
	"github.com/labelscan/labelscan-engine/pkg/product"
	"github.com/labelscan/labelscan-engine/pkg/repositories"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Log startup configuration
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Bool("oracle_available", cfg.Oracle.IsAvailable()),
		zap.Bool("history_enabled", cfg.Database.Enabled()))

	// Load the additive knowledge base (embedded unless overridden)
	store, err := kb.Load(cfg.KB.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	logger.Info("Knowledge base loaded", zap.Int("additives", store.Len()))

	// Classifier oracle is optional; without it unmatched phrases fall back
	// to the conservative default entry.
	var clsOracle oracle.ClassifierOracle
	if cfg.Oracle.IsAvailable() {
		chatClient, err := llm.NewClient(&llm.Config{
			Endpoint: cfg.Oracle.Endpoint,
			Model:    cfg.Oracle.Model,
			APIKey:   cfg.Oracle.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create oracle client", zap.Error(err))
		}
		clsOracle = oracle.NewLLMOracle(chatClient, logger)
		logger.Info("Classifier oracle configured",
			zap.String("endpoint", cfg.Oracle.Endpoint),
			zap.String("model", cfg.Oracle.Model),
			zap.String("api_key", logging.MaskSecret(cfg.Oracle.APIKey)))
	} else {
		logger.Warn("Classifier oracle not configured; unmatched ingredients get default entries")
	}

	pool := llm.NewWorkerPool(llm.WorkerPoolConfig{
		MaxConcurrent: cfg.Oracle.MaxConcurrent,
	}, logger)

	resolver := analysis.NewResolver(store, clsOracle, pool,
		analysis.ResolverConfig{OracleTimeout: cfg.Oracle.Timeout()},
		analysis.Policy{LimitIsUnsafe: cfg.ChildPolicy.LimitIsUnsafe},
		logger)

	// Scan history persistence is optional; the engine analyzes fine
	// without a database.
	var scanRepo repositories.ScanRepository
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to database",
				zap.String("error", logging.SanitizeError(err)))
		}
		defer db.Close()

		migrationDB := stdlib.OpenDBFromPool(db.Pool)
		if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		scanRepo = repositories.NewScanRepository(db)
		logger.Info("Scan history enabled",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database))
	}

	productClient := product.NewClient(cfg.Product.BaseURL, cfg.Product.Timeout(), logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg, store.Len(), logger)
	healthHandler.RegisterRoutes(mux)

	analyzeHandler := handlers.NewAnalyzeHandler(resolver, productClient, scanRepo, logger)
	analyzeHandler.RegisterRoutes(mux)

	scansHandler := handlers.NewScansHandler(scanRepo, logger)
	scansHandler.RegisterRoutes(mux)

	// MCP server for agent clients
	mcpServer := labelmcp.NewServer("labelscan-engine", cfg.Version, logger)
	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version, store.Len(), logger)
	tools.RegisterAnalyzeTools(mcpServer.MCP(), &tools.AnalyzeToolDeps{
		Resolver: resolver,
		KB:       store,
		Logger:   logger,
	})
	mux.Handle("/mcp", mcpServer.NewStreamableHTTPServer())

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting labelscan-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
