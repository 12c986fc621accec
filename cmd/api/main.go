package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/config"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/handlers"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/kafka"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/metrics"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
	"github.com/wrightcn2/Inventory-Search-Code-Test/pkg/logger"
	"github.com/wrightcn2/Inventory-Search-Code-Test/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/wrightcn2/Inventory-Search-Code-Test/docs" // Import docs for Swagger
)

// @title           Inventory Search API
// @version         1.0
// @description     Read API over the inventory catalog: paginated search and per-branch peak availability.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8081
// @BasePath  /

// @schemes   http https
func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting Inventory Search API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := loadRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load inventory", zap.Error(err))
	}
	engine := query.NewEngine(repo)

	var responseCache cache.Cache
	if cfg.UseCache {
		responseCache = cache.NewCache(cfg, appLogger)
	} else {
		appLogger.Info("Response cache disabled (USE_CACHE=false)")
	}

	// only a SQLite snapshot can change under the service; a generated dataset never does
	if cfg.UseKafka && cfg.SQLitePath != "" {
		consumer, err := kafka.NewConsumer(cfg, repo, responseCache, appLogger)
		if err != nil {
			appLogger.Warn("Failed to initialize Kafka consumer, continuing without snapshot reloads", zap.Error(err))
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Start(ctx); err != nil {
					appLogger.Error("Kafka consumer stopped", zap.Error(err))
				}
			}()
		}
	} else if cfg.UseKafka {
		appLogger.Info("Skipping Kafka consumer (SQLITE_PATH is not set)")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	inventoryHandler := handlers.NewInventoryHandler(appLogger, engine, responseCache, cache.TTL(cfg.ResponseCacheTTL))
	router := newRouter(appLogger, inventoryHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server",
			zap.String("address", srv.Addr),
			zap.String("swagger_url", "http://localhost:"+cfg.Port+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

func loadRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.SnapshotRepository, error) {
	loader := repository.GeneratedSnapshot(cfg.SeedRecords, cfg.SeedValue)
	if cfg.SQLitePath != "" {
		log.Info("Loading SQLite snapshot", zap.String("path", cfg.SQLitePath))
		loader = repository.SQLiteSnapshot(cfg.SQLitePath)
	} else {
		log.Info("Generating dataset",
			zap.Int("records", cfg.SeedRecords),
			zap.Int64("seed", cfg.SeedValue),
		)
	}

	repo, err := repository.NewSnapshotRepository(ctx, loader)
	if err != nil {
		return nil, err
	}
	count, _ := repo.Count(ctx)
	log.Info("Inventory loaded", zap.Int("records", count))
	return repo, nil
}

func newRouter(log *zap.Logger, inventoryHandler *handlers.InventoryHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(log))
	router.Use(middleware.RequestIDMiddleware(log))
	router.Use(logger.GinMiddleware(log))
	router.Use(metrics.PrometheusMiddleware())
	router.Use(middleware.ErrorHandler(log))
	router.NoRoute(middleware.NotFoundHandler)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handlers.HealthCheck)

	inventory := router.Group("/inventory")
	{
		inventory.GET("/search", inventoryHandler.SearchInventory)
		inventory.GET("/availability/peak", inventoryHandler.GetPeakAvailability)
		inventory.GET("/parts/:partNumber", inventoryHandler.GetPart)
	}

	return router
}
