package generator

import (
	"fmt"
	"math/rand"
	"time"
)

// Document is a generated graph document in the import wire format.
type Document struct {
	Nodes []Entry `json:"nodes"`
	Edges []Entry `json:"edges"`
}

// Entry wraps a single node or edge data map.
type Entry struct {
	Data map[string]any `json:"data"`
}

// Generator produces synthetic graph documents for demos and local testing.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumNodes <= 0 {
		cfg.NumNodes = DefaultConfig().NumNodes
	}
	if cfg.NumEdges < 0 {
		cfg.NumEdges = DefaultConfig().NumEdges
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

var labelPool = []string{
	"Concept", "Theory", "Method", "Observation", "Question",
	"Principle", "Example", "Definition", "Critique", "Source",
}

var contentFragments = []string{
	"A short working note on the topic.",
	"Needs a supporting reference before publishing.",
	"Summarized from the original discussion.",
	"Captures an open question raised during review.",
	"Background material linked from related entries.",
}

// Generate builds a random graph document. Edges always connect two distinct
// existing nodes, and duplicate source/target pairs are dropped so the edge
// count is an upper bound.
func (g *Generator) Generate() Document {
	doc := Document{
		Nodes: make([]Entry, 0, g.cfg.NumNodes),
		Edges: make([]Entry, 0, g.cfg.NumEdges),
	}

	ids := make([]string, g.cfg.NumNodes)
	for i := 0; i < g.cfg.NumNodes; i++ {
		id := fmt.Sprintf("node-%03d", i+1)
		ids[i] = id
		doc.Nodes = append(doc.Nodes, Entry{Data: map[string]any{
			"id":      id,
			"label":   fmt.Sprintf("%s %d", labelPool[g.rand.Intn(len(labelPool))], i+1),
			"content": contentFragments[g.rand.Intn(len(contentFragments))],
		}})
	}

	if len(ids) < 2 {
		return doc
	}

	seen := make(map[[2]string]struct{}, g.cfg.NumEdges)
	for i := 0; i < g.cfg.NumEdges; i++ {
		source := ids[g.rand.Intn(len(ids))]
		target := ids[g.rand.Intn(len(ids))]
		if source == target {
			continue
		}
		pair := [2]string{source, target}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		doc.Edges = append(doc.Edges, Entry{Data: map[string]any{
			"source": source,
			"target": target,
		}})
	}

	return doc
}
