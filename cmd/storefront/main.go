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

	"github.com/ekrishihub/storefront/internal/config"
	"github.com/ekrishihub/storefront/internal/logging"
	"github.com/ekrishihub/storefront/internal/ratelimit"
	"github.com/ekrishihub/storefront/internal/server"
	"github.com/ekrishihub/storefront/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting eKrishiHub storefront",
		zap.String("env", cfg.Env),
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := storage.Open(ctx, cfg, logger.Named("storage"))
	cancel()
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	if c, ok := st.(storage.Closer); ok {
		defer c.Close()
	}

	// The OTP cooldown shares redis with the credential storage when it is there
	var cooldown ratelimit.Cooldown
	if r, ok := st.(*storage.Redis); ok {
		cooldown = ratelimit.NewRedisCooldown(r.Client(), cfg.OTP.ResendCooldown)
	} else {
		cooldown = ratelimit.NewMemoryCooldown(cfg.OTP.ResendCooldown)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := server.Build(context.Background(), cfg, st, cooldown, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer app.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      app.Engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
