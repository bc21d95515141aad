package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"moexbot/internal/config"
	"moexbot/internal/database"
	"moexbot/internal/dialog"
	"moexbot/internal/logger"
	"moexbot/internal/provider"
	"moexbot/internal/services"
	"moexbot/internal/session"
	"moexbot/internal/telegram"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	// Create database manager and apply migrations
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Conversation store: Redis when configured, in-memory otherwise
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
		log.Infof("Using Redis session store at %s", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		log.Info("Using in-memory session store")
	}

	// Market data gateway
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	gateway := provider.NewGateway(
		provider.NewMoexClient(httpClient, cfg.MoexBaseURL),
		provider.NewCbrClient(httpClient, cfg.CbrBaseURL),
	)

	// Services and dialog engine
	ledger := services.NewLedgerService(dbManager.DB())
	valuator := services.NewPortfolioService(ledger, gateway)
	engine := dialog.NewEngine(store, ledger, valuator, gateway)

	// Telegram transport
	botClient := telegram.NewClient(httpClient, cfg.BotToken, "")
	dispatcher := telegram.NewDispatcher(engine, botClient)

	// Initialize Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	if cfg.WebhookMode {
		webhook := telegram.NewWebhookHandler(botClient, dispatcher)
		webhook.RegisterRoutes(router, cfg.BotToken)
		publicURL := os.Getenv("WEBHOOK_PUBLIC_URL")
		if publicURL == "" {
			return fmt.Errorf("WEBHOOK_PUBLIC_URL is required in webhook mode")
		}
		if err := webhook.Register(ctx, publicURL, cfg.BotToken); err != nil {
			return fmt.Errorf("failed to register webhook: %w", err)
		}
		log.Infof("Webhook registered at %s", publicURL)
	} else {
		if err := botClient.SetWebhook(ctx, ""); err != nil {
			log.Warnf("Failed to drop a stale webhook: %v", err)
		}
		poller := telegram.NewPoller(botClient, dispatcher)
		go func() {
			errCh <- poller.Run(ctx)
		}()
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown: %v", err)
	}
	dispatcher.Close()
	log.Info("Shutdown complete")
	return nil
}
