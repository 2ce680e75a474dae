package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/datasources"
	"payportal.backend/internal/infrastructure/jobs"
	"payportal.backend/internal/infrastructure/repositories"
	"payportal.backend/internal/interfaces/http/handlers"
	"payportal.backend/internal/interfaces/http/middleware"
	"payportal.backend/internal/usecases"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openStore  = datasources.Open
	runServer  = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Signing secret: generated per process when not configured, which
	// invalidates previously issued signed tokens on restart.
	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		generated, err := crypto.GenerateRandomToken(32)
		if err != nil {
			return fmt.Errorf("failed to generate signing secret: %w", err)
		}
		jwtSecret = generated
		logger.Warn(ctx, "JWT_SECRET not set, generated one for this process; previously issued signed tokens are invalid")
	}
	jwtService := jwt.NewJWTService(jwtSecret, cfg.JWT.Expiry)

	// Redis backs the payment idempotency cache and is optional.
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		logger.Info(ctx, "Redis initialized")
	}

	db, inMemory, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if inMemory {
		logger.Warn(ctx, "Running on the transient in-memory store; data does not survive a restart")
	} else {
		logger.Info(ctx, "Connected to PostgreSQL")
		defer closeStore(db)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	txRepo := repositories.NewTransactionRepository(db)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, sessionRepo, jwtService, cfg.Session.TTL, cfg.Session.StrictBinding)
	paymentUsecase := usecases.NewPaymentUsecase(txRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	adminHandler := handlers.NewAdminHandler(paymentUsecase)

	rateLimiter := middleware.NewRateLimiter()
	authMiddleware := middleware.Authenticate(authUsecase)

	// Background session sweep
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	reaper := jobs.NewSessionReaperJob(sessionRepo)
	go reaper.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.HTTPSRedirect(cfg.Server.Env))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIRoutes(r, routeDeps{
		authHandler:    authHandler,
		paymentHandler: paymentHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		rateLimits:     cfg.RateLimit,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		reaper.Stop()
		cancel()
	}()

	logger.Info(ctx, "Payments portal backend starting", zap.String("port", cfg.Server.Port))

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func closeStore(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
