package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rosterly/staff-roster/internal/roster"
	"github.com/rosterly/staff-roster/pkg/config"
	"github.com/rosterly/staff-roster/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	service := roster.New(cfg, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	go func() {
		logger.Infof("Starting Roster Service on port %s", port)
		if err := service.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start Roster Service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Roster Service...")
	if err := service.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Roster Service stopped")
}
