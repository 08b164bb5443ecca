// Package main provides the entry point for the AuthGate API server
// @title AuthGate API
// @version 1.0
// @description Account lifecycle API with rate limiting, lockout, and one-time secrets.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
// @Security BearerAuth
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"authgate/internal/api/routes"
	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/email"
	"authgate/internal/maintenance"
	"authgate/internal/repository/postgres"
	"authgate/internal/validation"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize counter store client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize validators
	validation.Initialize()

	// Initialize mail queue
	mailQueue := email.NewQueue(email.NewService(cfg.Email), cfg.Email.QueueSize, cfg.Email.SendsPerMinute)
	mailQueue.Start()
	defer mailQueue.Close()

	// Start maintenance purge in background
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	purger := maintenance.NewPurger(
		maintenance.Config{AuditRetention: cfg.AuditRetention},
		postgres.NewEmailVerificationRepository(db),
		postgres.NewPasswordResetRepository(db),
		postgres.NewAuditLogRepository(db),
	)
	go func() {
		if err := purger.Start(purgeCtx); err != nil {
			log.Printf("Maintenance purge stopped: %v", err)
		}
	}()

	// Setup routes
	router := routes.SetupRoutes(cfg, db, redisClient, mailQueue)

	// Convert port string to int
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		log.Fatalf("Invalid port number: %v", err)
	}

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
