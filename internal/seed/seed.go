// Package seed loads an optional graph document from disk and imports it
// once, only when the store contains no nodes at all.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/avelar/graphdeck/internal/service"
)

// ErrAlreadySeeded indicates the store holds data and seeding was skipped.
var ErrAlreadySeeded = errors.New("store already contains data")

// ErrNoSeedFile indicates no seed file is configured or present.
var ErrNoSeedFile = errors.New("seed file not found")

type document struct {
	Nodes []entry `json:"nodes"`
	Edges []entry `json:"edges"`
}

type entry struct {
	Data map[string]any `json:"data"`
}

// Runner performs the one-time seed import.
type Runner struct {
	svc    *service.GraphService
	logger *slog.Logger
}

// NewRunner constructs a Runner around the graph service.
func NewRunner(svc *service.GraphService, logger *slog.Logger) *Runner {
	return &Runner{svc: svc, logger: logger}
}

// Run imports the seed file as a single graph named graphName. It returns
// ErrAlreadySeeded when the store has data and ErrNoSeedFile when the
// configured file is absent; both are expected conditions for callers to
// translate, not failures of the import itself.
func (r *Runner) Run(ctx context.Context, path, graphName string) error {
	if path == "" {
		return ErrNoSeedFile
	}

	has, err := r.svc.HasData(ctx)
	if err != nil {
		return fmt.Errorf("check store contents: %w", err)
	}
	if has {
		return ErrAlreadySeeded
	}

	input, err := LoadDocument(path)
	if err != nil {
		return err
	}
	input.Name = graphName

	g, err := r.svc.ImportGraph(ctx, input)
	if err != nil {
		return fmt.Errorf("import seed document: %w", err)
	}

	r.logger.Info("store seeded",
		"graphId", g.ID,
		"name", g.Name,
		"nodes", len(input.Nodes),
		"edges", len(input.Edges),
	)
	return nil
}

// LoadDocument reads a graph document file into an import payload. The name
// field is left empty for the caller to fill in.
func LoadDocument(path string) (service.ImportInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return service.ImportInput{}, fmt.Errorf("%s: %w", path, ErrNoSeedFile)
		}
		return service.ImportInput{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return service.ImportInput{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	var input service.ImportInput
	for _, node := range doc.Nodes {
		input.Nodes = append(input.Nodes, service.NodeInputFromData(node.Data))
	}
	for _, edge := range doc.Edges {
		input.Edges = append(input.Edges, service.EdgeInputFromData(edge.Data))
	}
	return input, nil
}
