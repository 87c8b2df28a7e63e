package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/booking"
	calendarapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/calendar"
	catalogapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/catalog"
	identityapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/identity"
	notificationapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/notification"
	verificationapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/auth"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/cache"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/catalog"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/event"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/notification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/persistence"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/printing"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/scheduler"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/storage"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/handler"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/middleware"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/PLAYZONE-UA/zlota-raczka/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Złota Rączka API
//	@version		1.0
//	@description	Booking backend of a handyman service: SMS verified booking form, available dates and the admin order panel.

//	@contact.name	Złota Rączka
//	@contact.url	https://github.com/PLAYZONE-UA/zlota-raczka

//	@host		localhost:8000
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin access token. Format: "Bearer {token}"

//	@securityDefinitions.basic	BasicAuth

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry first so that the OTel log bridge can be teed into the logger
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize OpenTelemetry logs", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log, err = logger.New(logCfg, loggerProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Złota Rączka backend",
		zap.String("app", cfg.App.Name),
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, loggerProvider, profiler)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		// postgres is migrated with cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	if cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem(db.Driver),
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		if sqlDB, err := db.DB.DB(); err == nil {
			dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("database"), sqlDB, cfg.Telemetry.DBSlowQueryThresh)
			if err == nil {
				err = dbMetrics.Register(db.DB)
			}
			if err != nil {
				log.Warn("Database metrics disabled", zap.Error(err))
			}
		}
	}

	// Repositories and stores
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	dateRepo := persistence.NewGormAvailableDateRepository(db.DB)

	codeStore, redisClient, closeStore := newVerificationStore(ctx, cfg, db, log)
	defer closeStore()

	catalogRepo, err := catalog.LoadFile(cfg.Booking.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load service catalog", zap.Error(err), zap.String("path", cfg.Booking.CatalogPath))
	}

	photos, err := storage.New(ctx, cfg.Storage, cfg.Booking.MaxPhotoSize, log)
	if err != nil {
		log.Fatal("Failed to initialize photo storage", zap.Error(err))
	}

	bookingMetrics, err := telemetry.NewBookingMetrics(meterProvider.Meter("booking"), orderRepo, log)
	if err != nil {
		log.Warn("Booking metrics disabled", zap.Error(err))
		bookingMetrics = nil
	}

	// Events and notifications
	eventBus := event.NewInMemoryEventBus(log, event.DefaultConfig())
	eventBus.Subscribe(notificationapp.NewOrderNotificationHandler(newOrderNotifier(cfg, photos, log), log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Printing
	renderer := printing.NewRenderer(cfg.Printing, log)
	defer func() { _ = renderer.Close() }()
	workOrders, err := printing.NewWorkOrderPrinter(renderer, cfg.Printing.Language, cfg.Printing.Company)
	if err != nil {
		log.Fatal("Failed to prepare work order template", zap.Error(err))
	}

	// Application services
	sender, err := notification.NewSMSSender(cfg.SMS, log)
	if err != nil {
		log.Fatal("Failed to initialize SMS gateway", zap.Error(err))
	}
	verificationService := verificationapp.NewService(codeStore, sender, verificationapp.Config{
		Provider:       cfg.SMS.Provider,
		CodeLength:     cfg.SMS.CodeLength,
		CodeTTL:        cfg.SMS.CodeTTL,
		ResendCooldown: cfg.SMS.ResendCooldown,
		MaxAttempts:    cfg.SMS.MaxAttempts,
	}, log, verificationapp.WithMetrics(bookingMetrics))

	dateService := calendarapp.NewDateService(dateRepo, shared.SystemClock{}, log)
	catalogService := catalogapp.NewService(catalogRepo)
	orderService := bookingapp.NewOrderService(bookingapp.Dependencies{
		Orders:   orderRepo,
		Dates:    dateRepo,
		Photos:   photos,
		Verifier: verificationService,
		Events:   eventBus,
		Printer:  workOrders,
		Metrics:  bookingMetrics,
	}, bookingapp.Config{
		RequireVerification: cfg.Booking.RequireVerification,
		MaxOrdersPerPhone:   cfg.Booking.MaxOrdersPerPhone,
		MaxPhotos:           cfg.Booking.MaxPhotos,
		MaxPhotoSize:        cfg.Booking.MaxPhotoSize,
	}, log)

	credentials, err := auth.NewAdminCredentials(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		log.Fatal("Invalid admin credentials", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	authService := identityapp.NewAuthService(credentials, auth.NewJWTService(cfg.JWT), blacklist, log)

	// Background jobs
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMaintenanceExecutor(dateService, verificationService, scheduler.HorizonConfig{
			Days:         cfg.Booking.SeedDays,
			SkipWeekends: cfg.Booking.SkipWeekends,
			KeepPastDays: cfg.Booking.KeepPastDays,
		}, log)
		jobs := scheduler.NewService(cfg.Scheduler, executor, log)
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := jobs.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Int("workers", cfg.Scheduler.Workers),
			zap.Int("calendar_hour", cfg.Scheduler.CalendarHour),
			zap.Duration("purge_interval", cfg.Scheduler.PurgeInterval),
		)
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - otelgin span, request attributes, error status
	// 5. Metrics - HTTP request metrics
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.TracingAttributeInjector(), middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	if profiler.IsEnabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.SecureWithConfig(middleware.SecurityConfigFor(cfg.App.BaseURL, cfg.Storage.S3.PublicBaseURL)))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		apiLimiter, stopAPILimiter := newLimiter(redisClient, "api", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer stopAPILimiter()
		engine.Use(middleware.RateLimit(apiLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Bool("shared", redisClient != nil),
		)
	}
	smsLimiter, stopSMSLimiter := newLimiter(redisClient, "sms", cfg.HTTP.SMSRateLimit, cfg.HTTP.SMSRateWindow)
	defer stopSMSLimiter()

	adminAuth := middleware.AdminAuth(middleware.AdminAuthConfig{
		Authenticator:  authService,
		AllowBasicAuth: cfg.Admin.AllowBasicAuth,
		Logger:         log,
	})

	// Routes outside the API prefix
	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	systemHandler := handler.NewSystemHandler("Złota Rączka API", version, checks...)
	engine.GET("/", systemHandler.Root)
	engine.GET("/health", systemHandler.Health)

	if cfg.Storage.Driver == "local" {
		engine.Static(cfg.Storage.PublicPrefix, cfg.Storage.LocalDir)
	}

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.IsProduction(),
		}, adminAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// API routes
	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		SMS:     handler.NewSMSHandler(verificationService),
		Orders:  handler.NewOrderHandler(orderService),
		Dates:   handler.NewDateHandler(dateService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Auth:    handler.NewAuthHandler(authService),
	}, router.Guards{
		Admin:       adminAuth,
		SMSLimit:    middleware.RateLimit(smsLimiter),
		UploadLimit: middleware.BodyLimit(middleware.UploadLimit(cfg.Booking.MaxPhotos, cfg.Booking.MaxPhotoSize)),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newLimiter counts in Redis when a client is available so every instance
// shares the window, otherwise in process memory.
func newLimiter(client *redis.Client, name string, limit int, period time.Duration) (middleware.Limiter, func()) {
	if client != nil {
		return middleware.NewRedisRateLimiter(client, name, limit, period), func() {}
	}
	l := middleware.NewRateLimiter(limit, period)
	return l, l.Stop
}

// newVerificationStore picks the one-time code store from config. The redis
// client is returned so the token blacklist can share it.
func newVerificationStore(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) (verification.Store, *redis.Client, func()) {
	switch cfg.Verification.Store {
	case "redis":
		factory := cache.NewVerificationStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		)
		store, client, err := factory.CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to initialize verification store", zap.Error(err))
		}
		return store, client, func() {
			if client != nil {
				_ = client.Close()
			}
			if mem, ok := store.(*cache.InMemoryVerificationStore); ok {
				_ = mem.Close()
			}
		}
	case "memory":
		store := cache.NewVerificationStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateInMemoryStore()
		return store, nil, func() { _ = store.Close() }
	default:
		var client *redis.Client
		if cfg.Redis.Addr() != "" {
			// redis still backs the token blacklist when configured
			c, err := cache.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				log.Warn("Redis unavailable, token blacklist kept in memory", zap.Error(err))
			} else {
				client = c
			}
		}
		return persistence.NewGormVerificationStore(db.DB), client, func() {
			if client != nil {
				_ = client.Close()
			}
		}
	}
}

// newOrderNotifier returns the Telegram notifier when enabled, otherwise one that logs
func newOrderNotifier(cfg *config.Config, photos storage.PhotoStorage, log *zap.Logger) notificationapp.OrderNotifier {
	if !cfg.Telegram.Enabled {
		return notificationapp.NewLoggingOrderNotifier(log)
	}
	client, err := notification.NewTelegramClient(cfg.Telegram)
	if err != nil {
		log.Fatal("Failed to initialize Telegram client", zap.Error(err))
	}
	return notification.NewTelegramOrderNotifier(client, photos, time.Local, log)
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

func shutdownTelemetry(
	log *zap.Logger,
	tp *telemetry.TracerProvider,
	mp *telemetry.MeterProvider,
	lp *telemetry.LoggerProvider,
	profiler *telemetry.Profiler,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
