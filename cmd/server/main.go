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
	"github.com/mroshb/trivia_duel/internal/config"
	"github.com/mroshb/trivia_duel/internal/database"
	"github.com/mroshb/trivia_duel/internal/game"
	"github.com/mroshb/trivia_duel/internal/handlers"
	"github.com/mroshb/trivia_duel/internal/repositories"
	"github.com/mroshb/trivia_duel/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting trivia duel server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed starter content
	if err := database.SeedContent(db); err != nil {
		logger.Warn("Failed to seed content", "error", err)
	}

	playerRepo := repositories.NewPlayerRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	roundRepo := repositories.NewRoundRepository(db)

	sampler := game.NewSampler(time.Now().UnixNano())
	engine := game.NewEngine(cfg, matchRepo, roundRepo, contentRepo, sampler)

	manager := handlers.NewManager(cfg, engine, playerRepo, contentRepo)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      manager.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
