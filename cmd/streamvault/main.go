package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamvault/streamvault/internal/config"
	"github.com/streamvault/streamvault/internal/database"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/server"
)

func main() {
	fmt.Println("=======================================")
	fmt.Println("   StreamVault Admin - Module System   ")
	fmt.Println("=======================================")

	configPath := os.Getenv("STREAMVAULT_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./streamvault.yaml"); err == nil {
			configPath = "./streamvault.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		logger.Warn("Failed to load configuration from %s: %v; using defaults", configPath, err)
	} else if configPath != "" {
		logger.Info("Configuration loaded from %s", configPath)
	} else {
		logger.Info("Using default configuration")
	}

	logger.SetLevel(config.Get().Logging.Level)

	if err := database.Initialize(&config.Get().Database); err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	router, err := server.SetupRouter()
	if err != nil {
		logger.Error("Failed to set up server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, router); err != nil {
		logger.Error("Server error: %v", err)
		os.Exit(1)
	}
	logger.Info("Goodbye")
}
