package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/config"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/handlers"
	"github.com/letsgo-transit/booking-backend/internal/middleware"
	"github.com/letsgo-transit/booking-backend/internal/services"
	"github.com/letsgo-transit/booking-backend/internal/utils"
	"github.com/letsgo-transit/booking-backend/pkg/jwt"
	"github.com/letsgo-transit/booking-backend/pkg/sms"
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

	logger.Info("Starting LetsGo Booking Backend")
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
	logger.Info("Database connection established")

	// Type assertion needed: db is interface DB, but the booking-path
	// repositories need *sqlx.DB for transactions
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Unexpected database connection type")
	}

	// Initialize repositories
	routeRepository := database.NewRouteRepository(db)
	busRepository := database.NewBusRepository(pgDB.DB)
	scheduleRepository := database.NewScheduleRepository(pgDB.DB)
	bookingRepository := database.NewBookingRepository(pgDB.DB)
	paymentRepository := database.NewPaymentRepository(db)
	notificationRepository := database.NewNotificationRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	var smsGateway services.SMSSender
	if cfg.SMS.IsConfigured() {
		smsGateway = sms.NewDialogGateway(sms.DialogConfig{
			APIURL:   cfg.SMS.APIURL,
			Username: cfg.SMS.Username,
			Password: cfg.SMS.Password,
			Mask:     cfg.SMS.Mask,
		})
		logger.Info("SMS gateway configured")
	} else {
		logger.Warn("SMS gateway credentials not configured, booking SMS disabled")
	}

	notificationService := services.NewNotificationService(notificationRepository, smsGateway, logger)
	scheduleService := services.NewScheduleService(scheduleRepository, routeRepository, busRepository, logger)
	seatService := services.NewSeatService(scheduleRepository, busRepository, bookingRepository, logger)
	bookingService := services.NewBookingService(bookingRepository, scheduleRepository, seatService, notificationService, cfg.Booking, logger)
	stripeService := services.NewStripeService(cfg.Payment, logger)
	paymentService := services.NewPaymentService(paymentRepository, bookingRepository, stripeService, notificationService, logger)

	if !stripeService.IsConfigured() {
		logger.Warn("Payment gateway credentials not configured, payment endpoints will fail")
	}

	expirationService := services.NewExpirationService(bookingService, cfg.Booking.SweepSchedule, logger)
	if err := expirationService.Start(); err != nil {
		logger.Fatalf("Failed to start expiry sweep: %v", err)
	}

	// Initialize handlers
	routeHandler := handlers.NewRouteHandler(routeRepository)
	busHandler := handlers.NewBusHandler(busRepository)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	seatHandler := handlers.NewSeatHandler(seatService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Setup router
	router := gin.New()

	// Middleware
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

	// API routes
	api := router.Group("/api")
	{
		schedule := api.Group("/schedule")
		{
			schedule.GET("/search", scheduleHandler.Search)
			schedule.GET("/:id", scheduleHandler.GetByID)
			schedule.POST("", middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), scheduleHandler.Create)
			schedule.PUT("/:id", middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), scheduleHandler.Update)
			schedule.DELETE("/:id", middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), scheduleHandler.Delete)
		}

		seats := api.Group("/seats")
		{
			seats.GET("/schedule/:schedule_id", seatHandler.GetScheduleSeats)
		}

		booking := api.Group("/booking")
		booking.Use(middleware.AuthMiddleware(jwtService))
		{
			booking.POST("/create", bookingHandler.Create)
			booking.GET("", bookingHandler.List)
			booking.GET("/:id", bookingHandler.GetByID)
			booking.PUT("/:id", bookingHandler.Update)
			booking.PUT("/:id/cancel", bookingHandler.Cancel)
			booking.GET("/user/:user_id", middleware.RequireAdmin(), bookingHandler.ListForUser)
		}

		api.GET("/payment/config", paymentHandler.Config)

		payment := api.Group("/payment")
		payment.Use(middleware.AuthMiddleware(jwtService))
		{
			payment.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
			payment.POST("/confirm-payment", paymentHandler.ConfirmPayment)
			payment.GET("", paymentHandler.List)
			payment.GET("/:id", paymentHandler.GetByID)
		}

		routes := api.Group("/routes")
		{
			routes.GET("", routeHandler.List)
			routes.GET("/:id", routeHandler.GetByID)
			routes.POST("", middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), routeHandler.Create)
		}

		buses := api.Group("/buses")
		{
			buses.GET("", busHandler.List)
			buses.GET("/:id", busHandler.GetByID)
			buses.POST("", middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), busHandler.Create)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.AuthMiddleware(jwtService))
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
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

	// Stop the expiry sweep before closing the listener
	expirationService.Stop()

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

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
