package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"wishbase/internal/analytics"
	"wishbase/internal/caching"
	"wishbase/internal/config"
	"wishbase/internal/handlers"
	"wishbase/internal/jobs/background"
	"wishbase/internal/metrics"
	"wishbase/internal/middleware"
	"wishbase/internal/repositories"
	"wishbase/internal/services"
	"wishbase/pkg/database"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	// Storage backend, decided once here.
	var stores *repositories.Stores
	var db handlers.Pinger
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if err := database.Migrate(cfg.Storage.DatabaseURL, cfg.Storage.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		pool, err := database.NewPool(context.Background(), cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		stores = repositories.NewPostgresStores(pool)
		db = pool
	case config.BackendMemory:
		log.Println("Using in-memory storage; data will not survive restarts")
		stores = repositories.NewMemoryStores()
	}

	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	} else {
		cacheSvc = caching.NewNoopCacheService()
	}

	sessionTTL := time.Duration(cfg.Auth.SessionHours) * time.Hour
	tokenSvc := services.NewTokenService(jwtSecret, sessionTTL)
	analyticsSvc := analytics.NewService(stores)
	authSvc := services.NewAuthService(stores, tokenSvc, cacheSvc, analyticsSvc, sessionTTL)
	projectSvc := services.NewProjectService(stores, cacheSvc)
	wishlistSvc := services.NewWishlistService(stores, analyticsSvc)

	authHandlers := handlers.NewAuthHandlers(authSvc, projectSvc, stores)
	wishlistHandlers := handlers.NewWishlistHandlers(wishlistSvc, stores)
	projectHandlers := handlers.NewProjectHandlers(projectSvc, analyticsSvc)
	healthHandlers := handlers.NewHealthHandlers(db, cacheSvc, version)

	sweeper, err := background.NewSessionSweeper(stores.Sessions, time.Duration(cfg.Jobs.SessionSweepMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create session sweeper: %v", err)
	}
	sweeper.Start()
	defer func() {
		if err := sweeper.Stop(); err != nil {
			log.Printf("Failed to stop session sweeper: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(metrics.RequestCounter())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")

	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/auth/logout", authHandlers.Logout)

	sessionAuth := middleware.SessionMiddleware(authSvc)
	api.GET("/auth/me", authHandlers.Me, sessionAuth)
	api.GET("/wishlist", wishlistHandlers.List, sessionAuth)
	api.POST("/wishlist", wishlistHandlers.Add, sessionAuth)
	api.DELETE("/wishlist/:id", wishlistHandlers.Remove, sessionAuth)

	api.POST("/projects", projectHandlers.Create)
	api.GET("/projects", projectHandlers.List)
	api.GET("/projects/:id", projectHandlers.Get)
	api.DELETE("/projects/:id", projectHandlers.Delete)
	api.GET("/projects/:id/stats", projectHandlers.Stats)

	go func() {
		if err := e.Start(cfg.Server.Addr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
