package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mreid/group-session-website/internal/api"
	"github.com/mreid/group-session-website/internal/cache"
	"github.com/mreid/group-session-website/internal/config"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/repository/postgres"
	"github.com/mreid/group-session-website/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Identity provider client
	provider := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey, cfg.IdentitySigningSecret)

	// Cache invalidation signal (optional backend)
	var invalidator cache.Invalidator = cache.Noop{}
	if cfg.RedisURL != "" {
		redisInvalidator, err := cache.NewRedisInvalidator(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		invalidator = redisInvalidator
	}
	defer invalidator.Close()

	// Initialize services
	services := service.NewServices(repos, provider, invalidator, cfg)

	// Initialize router
	router := api.NewRouter(services, repos, provider, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
