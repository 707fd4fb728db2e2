package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/summario-team/summario-api/pkg/validator"

	"github.com/summario-team/summario-api/internal/adapter/handler"
	"github.com/summario-team/summario-api/internal/adapter/repository"
	"github.com/summario-team/summario-api/internal/infrastructure/cache"
	"github.com/summario-team/summario-api/internal/infrastructure/database"
	"github.com/summario-team/summario-api/internal/infrastructure/external/skribby"
	meetinguse "github.com/summario-team/summario-api/internal/usecase/meeting"
	summaryuse "github.com/summario-team/summario-api/internal/usecase/summary"
	pkgai "github.com/summario-team/summario-api/pkg/ai"
	"github.com/summario-team/summario-api/pkg/config"
	"github.com/summario-team/summario-api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Initialize external clients
	log.Println("🤖 Initializing bot platform and AI clients...")
	botClient := skribby.NewClient(&cfg.Skribby)
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)

	// AI configuration cache on top of Redis
	aiConfigCache := cache.NewAIConfigCache(cache.NewRedisStore(redisClient), userRepo, 15*time.Minute, logger)

	// Initialize summary generation and its worker pool
	log.Println("📝 Initializing summary service...")
	summaryService := summaryuse.NewService(meetingRepo, userRepo, aiConfigCache, geminiClient, logger)
	dispatcher := summaryuse.NewDispatcher(summaryService, cfg.Workers.SummaryQueueSize, logger)
	dispatcher.Start(cfg.Workers.SummaryWorkers)
	defer dispatcher.Stop()

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	// Initialize meeting service
	log.Println("📅 Initializing meeting service...")
	meetingService := meetinguse.NewService(meetingRepo, botClient, dispatcher, cfg, logger)

	// Initialize handlers
	log.Println("🚪 Initializing handlers...")
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	webhookHandler := handler.NewWebhookHandler(meetingService, logger)
	aiHandler := handler.NewAIHandler(summaryService, dispatcher, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, meetingHandler, webhookHandler, aiHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
