package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linktrack/internal/config"
	httpHandler "linktrack/internal/handler/http"
	"linktrack/internal/notify"
	"linktrack/internal/ratelimit"
	"linktrack/internal/repository/postgres"
	redisrepo "linktrack/internal/repository/redis"
	"linktrack/internal/service"
	"linktrack/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Configuration comes from environment variables (12-factor app),
	// so the same build runs in dev, staging and production.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel)
	appLogger.Info("Starting linktrack relay engine",
		"environment", cfg.App.Environment,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()
	db, err := postgres.InitDB(
		ctx,
		cfg.Database.DatabaseDSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	redisClient, err := redisrepo.InitRedis(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connection established")

	// Manual dependency injection, wired bottom-up:
	// pool -> repositories -> services/dispatcher -> handler.
	linkRepo := postgres.NewLinkRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	cache := redisrepo.NewCache(redisClient, cfg.Redis.CacheTTL)

	linkService := service.NewLinkService(linkRepo, cache, appLogger.Logger)
	eventService := service.NewEventService(eventRepo, linkRepo)
	chatService := service.NewChatService(messageRepo, linkRepo)

	// The provider token arrives here from configuration and nowhere
	// else; the dispatcher holds no global state.
	provider := notify.NewTelegramClient(cfg.Provider.APIBaseURL, cfg.Provider.BotToken, cfg.Provider.CallTimeout)
	dispatcher := notify.NewDispatcher(
		eventRepo,
		provider,
		cfg.Provider.NamePlaceholder,
		cfg.Provider.CallTimeout,
		appLogger.Logger,
	)

	handler := httpHandler.NewHandler(linkService, eventService, chatService, dispatcher, appLogger.Logger)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/links", handler.CreateLink)
	mux.HandleFunc("GET /api/v1/links", handler.ListLinks)
	mux.HandleFunc("GET /api/v1/links/{slug}", handler.GetLink)
	mux.HandleFunc("GET /api/v1/links/{slug}/qr", handler.GetLinkQR)
	mux.HandleFunc("DELETE /api/v1/links/{id}", handler.DeleteLink)

	mux.HandleFunc("POST /api/v1/events", handler.AppendEvent)
	mux.HandleFunc("GET /api/v1/events", handler.ListEvents)
	mux.HandleFunc("DELETE /api/v1/events/{id}", handler.DeleteEvent)

	mux.HandleFunc("POST /api/v1/notify", handler.Notify)
	mux.HandleFunc("POST /api/v1/notify/general", handler.NotifyGeneral)

	mux.HandleFunc("POST /api/v1/chats", handler.PostMessage)
	mux.HandleFunc("GET /api/v1/chats", handler.PollMessages)

	mux.HandleFunc("GET /health/live", handler.HealthCheck)

	if cfg.App.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Middleware executes outside-in: recovery first so panics from
	// everything below it are caught.
	middlewares := []func(http.Handler) http.Handler{
		httpHandler.RecoveryMiddleware(appLogger.Logger),
		httpHandler.LoggingMiddleware(appLogger.Logger),
		httpHandler.MetricsMiddleware,
		httpHandler.RequestIDMiddleware,
		httpHandler.CORSMiddleware,
	}
	if cfg.App.RateLimitEnabled {
		limiter := ratelimit.NewLimiter(redisClient, cfg.App.RateLimitPerMinute, time.Minute)
		middlewares = append(middlewares, httpHandler.RateLimitMiddleware(limiter))
	}
	finalHandler := httpHandler.Chain(middlewares...)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", "error", err)
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown: stop accepting new requests, give in-flight
	// ones 30 seconds to drain, then close the pools.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited gracefully")
}
