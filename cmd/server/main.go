package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apploan "github.com/crediya/loans/internal/application/loan"
	"github.com/crediya/loans/internal/infrastructure/auth"
	"github.com/crediya/loans/internal/infrastructure/cache"
	"github.com/crediya/loans/internal/infrastructure/config"
	"github.com/crediya/loans/internal/infrastructure/identity"
	"github.com/crediya/loans/internal/infrastructure/logger"
	"github.com/crediya/loans/internal/infrastructure/messaging"
	"github.com/crediya/loans/internal/infrastructure/persistence"
	"github.com/crediya/loans/internal/interfaces/http/handler"
	"github.com/crediya/loans/internal/interfaces/http/middleware"
	"github.com/crediya/loans/internal/interfaces/http/router"
)

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

	log.Info("Starting Crediya Loans",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Optional reference-data cache in front of the catalog repositories
	var txOpts []persistence.GormTxRunnerOption
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.TTL, log)
		txOpts = append(txOpts, persistence.WithCatalogDecorator(catalogCache))
		log.Info("Catalog cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	txRunner := persistence.NewGormTxRunner(db.DB, txOpts...)

	// Identity service client for applicant checks and enrichment
	customers := identity.NewHTTPGateway(cfg.Identity, log)

	// Outbound queues
	sqsClient, err := messaging.NewSQSClient(context.Background(), cfg.SQS)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}
	statusNotifier := messaging.NewSQSStatusNotifier(sqsClient, cfg.SQS.StatusQueueURL, log)
	capacityPublisher := messaging.NewSQSDebtCapacityPublisher(sqsClient, cfg.SQS.DebtCapacityQueueURL, log)

	// Application service
	loanService := apploan.NewLoanService(txRunner, customers, capacityPublisher)

	// JWT validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	loanHandler := handler.NewLoanHandler(loanService, statusNotifier)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body limit, then JWT auth on the API group.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		Logger: log,
	}))

	// Routes
	systemRoutes := router.NewSystemRoutes(systemHandler)
	systemRoutes.RegisterRoot(engine)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.NewLoanRoutes(loanHandler)).
		Register(systemRoutes).
		Setup()

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
