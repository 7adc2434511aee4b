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

	"github.com/gin-gonic/gin"

	"github.com/Invincible1602/AyurYoga/internal/client"
	"github.com/Invincible1602/AyurYoga/internal/guard"
	"github.com/Invincible1602/AyurYoga/internal/handler"
	"github.com/Invincible1602/AyurYoga/internal/middleware"
	"github.com/Invincible1602/AyurYoga/pkg/config"
	"github.com/Invincible1602/AyurYoga/pkg/logger"
	pkgredis "github.com/Invincible1602/AyurYoga/pkg/redis"
	"github.com/Invincible1602/AyurYoga/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	lg := logger.Get()
	lg.Info("Starting AyurYoga web client...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		lg.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		lg.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// The web client holds no database. Durable state lives with the
	// delegated services and in the visitor's cookies; Redis is optional,
	// for distributed rate limiting and pending-destination sharing.
	var redis *pkgredis.Client
	if cfg.Redis.Enabled {
		redisCfg := &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: 2 * time.Second,
		}
		redis, err = pkgredis.NewClient(ctx, redisCfg)
		if err != nil {
			lg.Warn("Redis connection failed, falling back to in-process state")
			redis = nil
		} else {
			defer redis.Close()
			lg.Info("Redis connected")
		}
	}

	// Pending destinations: Redis-backed when available so post-login
	// resumption survives restarts, in-memory otherwise
	var pending guard.PendingStore
	if redis != nil {
		pending = guard.NewRedisPendingStore(redis, cfg.Session.PendingTTL)
	} else {
		memPending := guard.NewMemoryPendingStore(cfg.Session.PendingTTL)
		defer memPending.Stop()
		pending = memPending
	}
	routeGuard := guard.New(pending, guard.Config{
		LoginPath:   cfg.Session.LoginPath,
		LandingPath: cfg.Session.LandingPath,
	})

	// External service clients
	authClient := client.NewAuthClient(cfg.Services.Auth)
	recommenderClient := client.NewRecommenderClient(cfg.Services.Recommender)
	chatClient := client.NewChatClient(cfg.Services.Chat)
	imagesClient := client.NewImagesClient(cfg.Services.Images)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(lg))
	router.Use(middleware.CORS())

	if cfg.RateLimit.Enabled {
		rateLimitCfg := middleware.DefaultRateLimitConfig()
		rateLimitCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rateLimitCfg.BurstSize = cfg.RateLimit.BurstSize
		if redis != nil {
			rateLimitCfg.UseRedis = true
			rateLimitCfg.RedisClient = redis
			lg.Info("Rate limiting enabled (Redis-backed, distributed)")
		} else {
			lg.Info("Rate limiting enabled (local, non-distributed)")
		}
		router.Use(middleware.RateLimiter(rateLimitCfg))
	}

	router.Use(middleware.Session(cfg.Session))

	router.LoadHTMLGlob("web/templates/*.tmpl")

	// Health checks
	healthHandler := handler.NewHealthHandler(redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Pages
	pages := handler.NewPageHandler()
	router.GET("/", pages.Home)
	router.GET("/about", pages.About)
	router.GET("/login", pages.Login)
	router.GET("/signup", pages.Signup)

	protected := router.Group("/", middleware.RequireAuth(routeGuard))
	protected.GET("/recommender", pages.Recommender)
	protected.GET("/chatbot", pages.Chatbot)
	protected.GET("/yoga-image-generator", pages.ImageGenerator)
	protected.GET("/shorts", pages.Shorts)

	// Unmatched paths fall back to the home view
	router.NoRoute(pages.Home)

	// JSON API
	authHandler := handler.NewAuthHandler(authClient, routeGuard, lg)
	wellnessHandler := handler.NewWellnessHandler(recommenderClient, chatClient, imagesClient)

	api := router.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/signup", authHandler.Signup)
	api.POST("/logout", authHandler.Logout)
	api.GET("/session", authHandler.Session)

	apiProtected := api.Group("", middleware.RequireAuthAPI())
	apiProtected.GET("/recommend", wellnessHandler.Recommend)
	apiProtected.POST("/chat", wellnessHandler.Chat)
	apiProtected.GET("/images", wellnessHandler.Images)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		lg.Info(fmt.Sprintf("AyurYoga web client listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	lg.Info("Server exited gracefully")
}
