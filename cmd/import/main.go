package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avelar/graphdeck/internal/config"
	"github.com/avelar/graphdeck/internal/graph"
	"github.com/avelar/graphdeck/internal/logging"
	"github.com/avelar/graphdeck/internal/repository"
	"github.com/avelar/graphdeck/internal/seed"
	"github.com/avelar/graphdeck/internal/service"
)

func main() {
	var (
		file = flag.String("file", "", "path to the graph document JSON file")
		name = flag.String("name", "", "graph name (defaults to the file name)")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file <document.json> [-name <graph name>]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "import")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to install schema constraints", "error", err)
		os.Exit(1)
	}

	input, err := seed.LoadDocument(*file)
	if err != nil {
		logger.Error("failed to load document", "error", err, "file", *file)
		os.Exit(1)
	}

	input.Name = *name
	if input.Name == "" {
		base := filepath.Base(*file)
		input.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	g, err := service.NewGraphService(repo).ImportGraph(ctx, input)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("graph imported",
		"graphId", g.ID,
		"name", g.Name,
		"nodes", len(input.Nodes),
		"edges", len(input.Edges),
	)
}
