package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geodata-upload-backend/internal/config"
	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/internal/telemetry"
	"geodata-upload-backend/middleware"
	"geodata-upload-backend/routes"
	"geodata-upload-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize tracer:", err)
	}
	defer shutdownTracer()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	// Connect to MongoDB. An unreachable server is logged and the service keeps
	// running; uploads fail until it comes back.
	mongoClient, err := config.NewMongoClient(cfg)
	if err != nil {
		log.Fatal("Failed to create MongoDB client:", err)
	}
	defer func() {
		if err := config.DisconnectMongoDB(mongoClient); err != nil {
			logger.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	if err := config.PingMongoDB(mongoClient, cfg.MongoTimeout); err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
	} else {
		logger.Info("Successfully connected to MongoDB", "database", cfg.DBName)
		if err := config.EnsureIndexes(mongoClient, cfg); err != nil {
			logger.Warn("Failed to create indexes", "error", err)
		}
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limits are kept in-process", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	files := services.NewFileStore(cfg.UploadDir)
	if err := files.EnsureDir(); err != nil {
		log.Fatal("Failed to prepare upload directory:", err)
	}

	reportStore := services.NewMongoReportStore(mongoClient.Database(cfg.DBName), cfg.UploadsCollection, cfg.MongoTimeout, metrics)
	reportService := services.NewReportService(files, reportStore, cfg.AllowedExtensions, metrics)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	if cfg.OTelEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.NewRateLimiter(rdb, cfg.RateLimitReqs, cfg.RateLimitWindow).Middleware())
	router.Use(middleware.RequestSizeLimit(cfg.MaxUploadSize))

	routes.SetupReportRoutes(router, reportService, files, cfg.MaxUploadSize)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "upload_dir", cfg.UploadDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
