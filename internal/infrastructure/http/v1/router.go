// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/projection"
	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/infrastructure/http/v1/handlers"
	"almacen/internal/infrastructure/http/v1/middleware"
	"almacen/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Domain services
	LotService      *lot.Service
	TransferService *transfer.Service
	Orchestrator    *transfer.Orchestrator
	Projector       *projection.Service
	Products        product.Repository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	healthHandler.RegisterRoutes(router.Group("/health"))

	base := handlers.NewBaseHandler()
	lotHandler := handlers.NewLotHandler(base, cfg.LotService)
	stockHandler := handlers.NewStockHandler(base, cfg.Projector)
	transferHandler := handlers.NewTransferHandler(base, cfg.TransferService, cfg.Orchestrator)
	productHandler := handlers.NewProductHandler(base, cfg.Products)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/lots", lotHandler.Create)

		v1.GET("/products", productHandler.List)
		v1.GET("/products/:productId", productHandler.Get)
		v1.GET("/products/:productId/lots", lotHandler.ListByProduct)
		v1.GET("/products/:productId/stock", stockHandler.Get)

		v1.GET("/stock", stockHandler.List)

		v1.POST("/transfers", transferHandler.Create)
		v1.POST("/transfers/bulk", transferHandler.CreateBulk)
		v1.GET("/transfers", transferHandler.List)
	}

	return router
}
