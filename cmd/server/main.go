package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"recipesearch/server/internal/config"
	"recipesearch/server/internal/mcp"
	"recipesearch/server/internal/middleware"
	"recipesearch/server/internal/modules"
	"recipesearch/server/internal/modules/spoonacular"
	"recipesearch/server/internal/observability"
	"recipesearch/server/pkg/spoonacularapi"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recipe-search-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs go to stderr.
	if err := observability.InitLogger(cfg.LogLevel, cfg.LogDev); err != nil {
		return err
	}
	defer observability.Sync()
	log := observability.Logger()

	observability.InitLoki(cfg.Loki)
	defer observability.FlushLoki()

	client := spoonacularapi.NewClient(spoonacularapi.WithBaseURL(cfg.SpoonacularBaseURL))
	modules.RegisterModule(spoonacular.New(client, cfg.SpoonacularAPIKey))

	if cfg.SpoonacularAPIKey == "" {
		log.Warn("SPOONACULAR_API_KEY is not set; calls must pass api_key")
	}
	log.Info("starting MCP server",
		zap.String("version", version),
		zap.Strings("modules", modules.ListModules()),
		zap.String("endpoint", client.Endpoint()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := middleware.Stdio(mcp.NewHandler(version))
	if err := transport.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error("transport stopped", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
