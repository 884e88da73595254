package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avelar/graphdeck/internal/config"
	"github.com/avelar/graphdeck/internal/graph"
	"github.com/avelar/graphdeck/internal/logging"
	"github.com/avelar/graphdeck/internal/repository"
	"github.com/avelar/graphdeck/internal/seed"
	"github.com/avelar/graphdeck/internal/server"
	"github.com/avelar/graphdeck/internal/service"
)

func main() {
	ctx := context.Background()

	// Local development keeps connection settings in a .env file; a missing
	// file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to install schema constraints", "error", err)
		os.Exit(1)
	}

	graphService := service.NewGraphService(repo)
	seeder := seed.NewRunner(graphService, logger)

	if cfg.Seed.File != "" {
		switch err := seeder.Run(ctx, cfg.Seed.File, cfg.Seed.GraphName); {
		case errors.Is(err, seed.ErrAlreadySeeded):
			logger.Info("store already seeded", "file", cfg.Seed.File)
		case errors.Is(err, seed.ErrNoSeedFile):
			logger.Warn("seed file configured but not found", "file", cfg.Seed.File)
		case err != nil:
			logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	apiHandlers := server.NewAPIHandlers(logger, graphService, seeder, cfg.Seed)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.GraphHealthService{Client: graphClient},
		API:            apiHandlers,
		Static:         cfg.Static,
		AllowedOrigins: parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
