package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/avelar/graphdeck/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		nodes       = flag.Int("nodes", cfg.NumNodes, "number of nodes to generate")
		edges       = flag.Int("edges", cfg.NumEdges, "maximum number of edges to generate")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output      = flag.String("output", "data/sample-graph.json", "path of the generated graph document")
		writeStdout = flag.Bool("stdout", false, "write the document to stdout instead of a file")
	)
	flag.Parse()

	gen := generator.New(generator.Config{
		NumNodes: *nodes,
		NumEdges: *edges,
		Seed:     *seed,
	})
	doc := gen.Generate()

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(doc); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write document to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDocument(doc, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write document: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d edges into %s\n", len(doc.Nodes), len(doc.Edges), *output)
}
