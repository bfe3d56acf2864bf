package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/config"
	"github.com/smartroute/busops-backend/internal/database"
	"github.com/smartroute/busops-backend/internal/handlers"
	"github.com/smartroute/busops-backend/internal/services"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartRoute Bus Operations Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	routeRepo := database.NewRouteRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	timeSlotRepo := database.NewScheduleTimeSlotRepository(db)
	occasionRepo := database.NewScheduleOccasionRepository(db)
	tripRepo := database.NewTripRepository(db)
	vehicleRepo := database.NewVehicleRepository(db)
	seatRepo := database.NewSeatRepository(db)
	seatMapRepo := database.NewSeatMapRepository(db)
	templateRepo := database.NewPricingTemplateRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	batchLoader := services.NewBatchDataLoader(routeRepo, occasionRepo, timeSlotRepo, logger)
	allocator := services.NewStaticResourceAllocator(cfg.Resources)
	materializer := services.NewTripMaterializer(
		scheduleRepo,
		batchLoader,
		tripRepo,
		allocator,
		cfg.TripGeneration,
		logger,
	)
	resolver := services.NewPricingResolver(
		templateRepo,
		seatMapRepo,
		tripRepo,
		seatRepo,
		routeRepo,
		vehicleRepo,
		logger,
	)

	// Initialize and start cron service
	cronService := services.NewCronService(materializer, cfg.TripGeneration, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Cron service started, daily trip generation enabled")

	// Initialize handlers
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, logger)
	tripHandler := handlers.NewTripHandler(tripRepo, logger)
	tripGenerationHandler := handlers.NewTripGenerationHandler(cronService)
	pricingHandler := handlers.NewPricingHandler(resolver, logger)
	pricingTemplateHandler := handlers.NewPricingTemplateHandler(templateRepo, resolver, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Schedule administration
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", scheduleHandler.List)
			schedules.POST("", scheduleHandler.Create)
			schedules.GET("/:id", scheduleHandler.Get)
			schedules.PUT("/:id", scheduleHandler.Update)
			schedules.DELETE("/:id", scheduleHandler.Delete)
		}

		// Trip generation control
		generation := v1.Group("/trip-generation")
		{
			generation.POST("/run", tripGenerationHandler.Run)
			generation.GET("/status", tripGenerationHandler.Status)
		}

		// Materialized trips and price resolution
		trips := v1.Group("/trips")
		{
			trips.GET("", tripHandler.ListByDateRange)
			trips.GET("/:tripId", tripHandler.Get)
			trips.DELETE("/:tripId", tripHandler.Delete)
			trips.GET("/:tripId/pricing", pricingHandler.ResolveForTrip)
			trips.GET("/:tripId/seats/:seatId/price", pricingHandler.ResolveForTripAndSeat)
		}

		// Pricing template administration
		templates := v1.Group("/pricing-templates")
		{
			templates.POST("", pricingTemplateHandler.Create)
			templates.GET("/:id", pricingTemplateHandler.Get)
			templates.PUT("/:id", pricingTemplateHandler.Update)
			templates.PATCH("/:id", pricingTemplateHandler.Patch)
			templates.DELETE("/:id", pricingTemplateHandler.Delete)
		}

		v1.GET("/routes/:routeId/pricing-templates", pricingTemplateHandler.ListByRoute)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop cron service
	logger.Info("Stopping cron service...")
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
