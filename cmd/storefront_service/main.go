package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ridloal/meoris-storefront/internal/platform/config"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/storefront"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load Config
	config.LoadDotEnv()
	cfg := config.LoadStorefrontConfig()
	logger.SetLevel(logger.ParseLevel(config.GetEnv("LOG_LEVEL", "info")))

	logger.Info("Starting Storefront Service...")

	// Setup Database
	db, err := database.Connect(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Storefront Service", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(context.Background(), db, cfg.DB.Driver); err != nil {
			logger.Error("Failed to migrate database schema", err)
			os.Exit(1)
		}
	}

	srv, err := storefront.NewServer(db, cfg)
	if err != nil {
		logger.Error("Failed to assemble Storefront Service", err)
		os.Exit(1)
	}

	if err := srv.Janitor.Start(); err != nil {
		logger.Error("Failed to start draft janitor", err)
		os.Exit(1)
	}
	defer srv.Janitor.Stop()

	httpServer := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: srv.Router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down", logger.Fields{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", err)
		}
	}()

	logger.Info("Storefront Service running on port " + cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to run Storefront Service server", err)
	}
}
