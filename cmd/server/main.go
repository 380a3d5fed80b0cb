package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/shopcraft/backend/internal/application/catalog"
	designapp "github.com/shopcraft/backend/internal/application/design"
	eventapp "github.com/shopcraft/backend/internal/application/event"
	identityapp "github.com/shopcraft/backend/internal/application/identity"
	orderapp "github.com/shopcraft/backend/internal/application/order"
	requestapp "github.com/shopcraft/backend/internal/application/request"
	reviewapp "github.com/shopcraft/backend/internal/application/review"
	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"github.com/shopcraft/backend/internal/infrastructure/cache"
	"github.com/shopcraft/backend/internal/infrastructure/config"
	"github.com/shopcraft/backend/internal/infrastructure/event"
	"github.com/shopcraft/backend/internal/infrastructure/logger"
	"github.com/shopcraft/backend/internal/infrastructure/persistence"
	"github.com/shopcraft/backend/internal/infrastructure/storage"
	"github.com/shopcraft/backend/internal/infrastructure/strategy/pricing"
	"github.com/shopcraft/backend/internal/infrastructure/telemetry"
	"github.com/shopcraft/backend/internal/interfaces/http/handler"
	"github.com/shopcraft/backend/internal/interfaces/http/middleware"
	"github.com/shopcraft/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/shopcraft/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ShopCraft Backend API
//	@version		1.0
//	@description	Custom apparel storefront backend - catalog, design studio, orders and reviews
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/shopcraft/backend
//	@contact.email	support@shopcraft.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopCraft Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Shared Redis client for cart storage, quote cache and token blacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// OpenTelemetry providers. Both are no-ops when telemetry is disabled.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing via otelgorm
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Error("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	designOrderRepo := persistence.NewGormDesignOrderRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	customRequestRepo := persistence.NewGormCustomRequestRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that need transactional event publishing
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	designOrderRepo.SetOutboxEventSaver(outboxPublisher)
	reviewRepo.SetOutboxEventSaver(outboxPublisher)
	customRequestRepo.SetOutboxEventSaver(outboxPublisher)
	userRepo.SetOutboxEventSaver(outboxPublisher)

	// Object storage for design uploads, review images and request artwork
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := objectStorage.EnsureBucket(context.Background()); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}
	log.Info("Object storage ready", zap.String("bucket", objectStorage.GetBucket()))

	// Redis-backed infrastructure
	cartStore := cache.NewRedisCartStore(redisClient, cfg.Cart.TTL)
	quoteCache := cache.NewRedisQuoteCache(redisClient)
	tokenBlacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)

	// Pricing quoter composed from placement area and quantity tier strategies
	quoter := pricing.DefaultQuoteCalculator()

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	cartService := orderapp.NewCartService(cartStore, productRepo, designOrderRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, designOrderRepo, cartStore, log)
	designOrderService := designapp.NewDesignOrderService(designOrderRepo, assetRepo, productRepo, objectStorage, quoter)
	designOrderService.SetConfig(designapp.DesignOrderServiceConfig{
		DownloadURLExpiry: cfg.Storage.PresignExpiration,
	})
	pricingService := designapp.NewPricingService(productRepo, quoter, quoteCache)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, objectStorage)
	customRequestService := requestapp.NewCustomRequestService(customRequestRepo, objectStorage)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Business metrics with periodic moderation backlog collection
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:              meterProvider.Meter("shopcraft/business"),
			Logger:             log,
			ModerationProvider: telemetry.NewGormModerationMetricsProvider(db.DB),
		})
		if err != nil {
			log.Error("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
			defer businessMetrics.Stop()
			orderService.SetBusinessMetrics(businessMetrics)
			reviewService.SetBusinessMetrics(businessMetrics)
		}
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Outbox delivery is at-least-once, so consumer-side handlers are
	// wrapped with an idempotency check
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Account locked or deactivated -> revoke outstanding sessions
	userStatusChangedHandler := identityapp.NewUserStatusChangedHandler(
		tokenBlacklist, cfg.JWT.RefreshTokenExpiration, log,
	)
	eventBus.Subscribe(event.NewIdempotentHandler(userStatusChangedHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("user_status_changed_events", userStatusChangedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery
	// The outbox processor reads events from the outbox_events table and publishes them to the event bus
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  event.DefaultOutboxProcessorConfig().CleanupInterval,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	designOrderHandler := handler.NewDesignOrderHandler(designOrderService, pricingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	customRequestHandler := handler.NewCustomRequestHandler(customRequestService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. Telemetry - Tracing, HTTP metrics, profiling labels (if enabled)
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Telemetry middleware: request tracing, HTTP metrics, profiling labels
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("shopcraft/http"), cfg.Telemetry.Enabled))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.Profiling())
	}

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, middleware.JWTAuthMiddleware(jwtService))
	engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Catalog browsing, review reading and price estimation are public;
	// everything else needs an authenticated account.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/products",
			"/api/v1/categories",
			"/api/v1/categories/tree",
			"/api/v1/design-orders/estimate",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products/",
			"/api/v1/categories/",
			"/api/v1/design-orders/positions/",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	if cfg.Telemetry.Enabled {
		// Runs after JWT so user and role land on the request span.
		r.Use(middleware.TracingAttributeInjector())
	}

	// Catalog routes (public reads, admin writes live under /admin)
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.GetByID)
	productRoutes.GET("/code/:code", productHandler.GetByCode)
	// Approved reviews of a product are public
	productRoutes.GET("/:id/reviews", reviewHandler.ListByProduct)
	productRoutes.GET("/:id/reviews/summary", reviewHandler.RatingSummary)

	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/tree", categoryHandler.GetTree)
	categoryRoutes.GET("/:id", categoryHandler.GetByID)
	categoryRoutes.GET("/slug/:slug", categoryHandler.GetBySlug)
	categoryRoutes.GET("/:id/products", productHandler.GetByCategory)

	// Shopping cart routes
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
	cartRoutes.POST("/design-items", cartHandler.AddDesignItem)
	cartRoutes.DELETE("/design-items/:designOrderId", cartHandler.RemoveDesignItem)

	// Order routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/checkout", orderHandler.Checkout)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Design order routes (estimate and positions are public)
	designOrderRoutes := router.NewDomainGroup("design-orders", "/design-orders")
	designOrderRoutes.POST("/estimate", designOrderHandler.Estimate)
	designOrderRoutes.GET("/positions/:productId", designOrderHandler.Positions)
	designOrderRoutes.POST("", designOrderHandler.Submit)
	designOrderRoutes.GET("", designOrderHandler.List)
	designOrderRoutes.GET("/:id", designOrderHandler.Get)
	designOrderRoutes.POST("/:id/placements", designOrderHandler.AddPlacement)
	designOrderRoutes.PUT("/:id/placements/:placementId", designOrderHandler.UpdatePlacement)
	designOrderRoutes.DELETE("/:id/placements/:placementId", designOrderHandler.RemovePlacement)
	designOrderRoutes.PUT("/:id/quantity", designOrderHandler.UpdateQuantity)
	designOrderRoutes.POST("/:id/cancel", designOrderHandler.Cancel)

	// Review routes
	reviewRoutes := router.NewDomainGroup("reviews", "/reviews")
	reviewRoutes.POST("", reviewHandler.Create)
	reviewRoutes.GET("/mine", reviewHandler.ListMine)
	reviewRoutes.GET("/:id", reviewHandler.Get)
	reviewRoutes.PUT("/:id", reviewHandler.Update)
	reviewRoutes.DELETE("/:id", reviewHandler.Delete)
	reviewRoutes.POST("/:id/images", reviewHandler.AddImage)
	reviewRoutes.POST("/:id/helpful", reviewHandler.MarkHelpful)

	// Custom request routes
	customRequestRoutes := router.NewDomainGroup("custom-requests", "/custom-requests")
	customRequestRoutes.POST("", customRequestHandler.Create)
	customRequestRoutes.GET("", customRequestHandler.List)
	customRequestRoutes.GET("/:id", customRequestHandler.Get)
	customRequestRoutes.PUT("/:id", customRequestHandler.UpdateBrief)
	customRequestRoutes.POST("/:id/artwork", customRequestHandler.AttachArtwork)
	customRequestRoutes.POST("/:id/cancel", customRequestHandler.Cancel)

	// Auth routes (register/login/refresh are JWT skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User self-service routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.PUT("/profile", userHandler.UpdateProfile)

	// Admin routes
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())

	// Catalog management
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/products/:id/activate", productHandler.Activate)
	adminRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	adminRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)
	adminRoutes.GET("/products/stats", productHandler.CountByStatus)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	adminRoutes.POST("/categories/:id/activate", categoryHandler.Activate)
	adminRoutes.POST("/categories/:id/deactivate", categoryHandler.Deactivate)

	// Order management
	adminRoutes.GET("/orders", orderHandler.AdminList)
	adminRoutes.GET("/orders/:id", orderHandler.AdminGet)
	adminRoutes.GET("/orders/number/:number", orderHandler.GetByOrderNumber)
	adminRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.GET("/orders/stats", orderHandler.CountByStatus)

	// Design order management
	adminRoutes.GET("/design-orders", designOrderHandler.AdminList)
	adminRoutes.GET("/design-orders/:id", designOrderHandler.AdminGet)
	adminRoutes.PUT("/design-orders/:id/status", designOrderHandler.UpdateStatus)
	adminRoutes.GET("/design-orders/stats", designOrderHandler.CountByStatus)

	// Review moderation
	adminRoutes.GET("/reviews", reviewHandler.AdminList)
	adminRoutes.POST("/reviews/:id/approve", reviewHandler.Approve)
	adminRoutes.POST("/reviews/:id/reject", reviewHandler.Reject)

	// Custom request management
	adminRoutes.GET("/custom-requests", customRequestHandler.AdminList)
	adminRoutes.GET("/custom-requests/:id", customRequestHandler.AdminGet)
	adminRoutes.POST("/custom-requests/:id/start", customRequestHandler.Start)
	adminRoutes.POST("/custom-requests/:id/complete", customRequestHandler.Complete)
	adminRoutes.POST("/custom-requests/:id/cancel", customRequestHandler.AdminCancel)
	adminRoutes.PUT("/custom-requests/:id/notes", customRequestHandler.SetNotes)
	adminRoutes.GET("/custom-requests/stats", customRequestHandler.CountByStatus)

	// User management
	adminRoutes.POST("/users", userHandler.CreateAdmin)
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.GetByID)
	adminRoutes.DELETE("/users/:id", userHandler.Delete)
	adminRoutes.POST("/users/:id/promote", userHandler.Promote)
	adminRoutes.POST("/users/:id/demote", userHandler.Demote)
	adminRoutes.POST("/users/:id/activate", userHandler.Activate)
	adminRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)
	adminRoutes.POST("/users/:id/lock", userHandler.Lock)
	adminRoutes.POST("/users/:id/unlock", userHandler.Unlock)
	adminRoutes.POST("/users/:id/reset-password", userHandler.ResetPassword)
	adminRoutes.POST("/users/:id/force-logout", authHandler.ForceLogout)

	// Outbox management (admin-only, separate from the public system routes)
	outboxRoutes := router.NewDomainGroup("outbox", "/system/outbox")
	outboxRoutes.Use(middleware.RequireAdmin())
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)

	// System routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(productRoutes).
		Register(categoryRoutes).
		Register(cartRoutes).
		Register(orderRoutes).
		Register(designOrderRoutes).
		Register(reviewRoutes).
		Register(customRequestRoutes).
		Register(authRoutes).
		Register(userRoutes).
		Register(adminRoutes).
		Register(outboxRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
