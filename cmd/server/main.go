// Package main is the entry point for the almacen API server: the
// warehouse-to-store lot allocation and transfer engine of the retail
// management system.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/projection"
	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/infrastructure/cache"
	v1 "almacen/internal/infrastructure/http/v1"
	"almacen/internal/infrastructure/storage/postgres"
	"almacen/internal/infrastructure/storage/postgres/catalog_repo"
	"almacen/internal/infrastructure/storage/postgres/warehouse_repo"
	"almacen/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting almacen server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	lotRepo := warehouse_repo.NewLotRepo(txManager)
	recordRepo := warehouse_repo.NewTransferRecordRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)

	// --- Projection cache (optional) ---
	var projectionCache *cache.ProjectionCache
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalw("failed to ping redis", "error", err)
		}
		ttl := time.Duration(getEnvInt("PROJECTION_CACHE_TTL_SECONDS", 30)) * time.Second
		projectionCache = cache.NewProjectionCache(client, ttl)
		defer client.Close()
		log.Infow("projection cache enabled", "addr", addr, "ttl", ttl)
	}

	// --- Domain services ---
	// projectionCache is a typed nil inside the interfaces unless enabled;
	// pass nil explicitly in that case.
	var (
		lotCache      lot.StockCache
		transferCache transfer.StockCache
		projCache     projection.Cache
	)
	if projectionCache != nil {
		lotCache = projectionCache
		transferCache = projectionCache
		projCache = projectionCache
	}

	lotService := lot.NewService(lotRepo, productRepo, lotCache)
	transferService := transfer.NewService(txManager, lotRepo, productRepo, recordRepo, transferCache)
	orchestrator := transfer.NewOrchestrator(transferService, lotRepo)
	projector := projection.NewService(productRepo, lotRepo, projCache)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool.Unwrap(),
		Logger:          log,
		LotService:      lotService,
		TransferService: transferService,
		Orchestrator:    orchestrator,
		Projector:       projector,
		Products:        productRepo,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
