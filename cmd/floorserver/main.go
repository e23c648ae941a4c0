// Command floorserver serves floor generation over HTTP and WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/floorforge/internal/archive"
	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/config"
	"github.com/lawnchairsociety/floorforge/internal/logger"
	"github.com/lawnchairsociety/floorforge/internal/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	addr := flag.String("addr", "", "Listen address (default: server.address)")
	hashKey := flag.String("hash-key", "", "Print the bcrypt hash of an API key for server.api_key_hash and exit")
	flag.Parse()

	if *hashKey != "" {
		hash, err := server.HashAPIKey(*hashKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	cat, err := catalog.Load(cfg.Generator.CatalogPath)
	if err != nil {
		logger.Error("Failed to load room catalog", "path", cfg.Generator.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Room catalog loaded", "rooms", cat.Len())

	var store server.Store
	if cfg.Archive.Enabled {
		a, err := archive.OpenWithConfig(cfg.Archive.Config)
		if err != nil {
			logger.Error("Failed to open archive", "driver", cfg.Archive.Driver, "error", err)
			os.Exit(1)
		}
		defer a.Close()
		store = a
		logger.Info("Archive opened", "driver", cfg.Archive.Driver)
	}
	if cfg.Server.APIKeyHash == "" {
		logger.Warning("No API key configured - generation endpoints are open")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, cat, store).ListenAndServe(ctx); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Server shut down")
}
