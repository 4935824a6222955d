package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/cashpro-ledger/internal/config"
	"github.com/cashpro-ledger/internal/currency"
	mongodata "github.com/cashpro-ledger/internal/data/mongo"
	"github.com/cashpro-ledger/internal/data/postgres"
	"github.com/cashpro-ledger/internal/ledger"
	"github.com/cashpro-ledger/internal/logger"
	"github.com/cashpro-ledger/internal/platform/messaging/producers"
	"github.com/cashpro-ledger/internal/platform/persistence"
	"github.com/cashpro-ledger/internal/query"
	"github.com/cashpro-ledger/internal/server"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Load the currency definitions
	registry, err := currency.LoadRegistry(cfg.Ledger.CurrenciesFile)
	if err != nil {
		log.Error("Failed to load currency definitions", "error", err)
		os.Exit(1)
	}
	log.Info("Loaded currency definitions", "currencies", registry.List())

	// Optional Kafka producer for committed-transaction events
	var eventProducer *producers.TransactionEventProducer
	if cfg.Kafka.Enabled {
		eventProducer, err = producers.NewTransactionEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka event producer", "error", err)
			os.Exit(1)
		}
	}

	// Optional Redis leaderboard cache
	var leaderboardCache *query.LeaderboardCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(appCtx).Err(); err != nil {
			log.Error("Failed to ping Redis", "error", err)
			os.Exit(1)
		}
		leaderboardCache = query.NewLeaderboardCache(log, redisClient, cfg.Redis.CacheTTL)
		log.Info("Leaderboard cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// Initialize repositories
	balanceRepo := postgres.NewBalanceRepository(log, postgresDB)
	transactionLog := mongodata.NewTransactionLog(log, mongoDB.Database())

	// Initialize the ledger engine behind a bounded worker pool
	var publisher producers.MessagePublisher
	if eventProducer != nil {
		publisher = eventProducer
	}
	engine := ledger.NewEngine(log, postgresDB, balanceRepo, transactionLog, registry, publisher, &cfg.Ledger)
	pooledEngine, err := ledger.NewPooledEngine(engine, cfg.WorkerPool.Size, log)
	if err != nil {
		log.Error("Failed to initialize ledger worker pool", "error", err)
		os.Exit(1)
	}

	queries := query.NewService(log, balanceRepo, transactionLog, registry, leaderboardCache, cfg.Ledger.HistoryPageSize)

	// Initialize REST server
	srv := server.NewServer(log, cfg, pooledEngine, queries)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server so no new operations arrive
	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain the worker pool before closing its backing stores
	pooledEngine.Shutdown()

	postgresDB.Close()

	if eventProducer != nil {
		if err = eventProducer.Close(); err != nil {
			log.Error("Error closing Kafka event producer", "error", err)
		}
	}

	if redisClient != nil {
		if err = redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
		}
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
