package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/avelar/graphdeck/internal/domain"
	"github.com/avelar/graphdeck/internal/graph"
)

func TestRepository_ImportGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	g := domain.Graph{ID: "graph-1", Name: "Therapy Notes"}
	doc := domain.GraphDocument{
		Nodes: []domain.Node{
			{ID: "n1", Label: "Contact", Content: "First contact cycle."},
			{ID: "n2", Label: "Awareness", Content: "", Properties: map[string]any{"weight": 2}},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
		},
	}

	if err := repo.ImportGraph(context.Background(), g, doc); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	batches := mem.BatchCalls()
	if len(batches) != 1 {
		t.Fatalf("expected 1 transactional batch, got %d", len(batches))
	}

	batch := batches[0]
	if len(batch) != 4 {
		t.Fatalf("expected 4 statements (graph + 2 nodes + 1 edge), got %d", len(batch))
	}

	if batch[0].Cypher != createGraphCypher {
		t.Fatalf("unexpected first statement:\n%s", batch[0].Cypher)
	}
	if batch[0].Params["graphId"] != g.ID || batch[0].Params["name"] != g.Name {
		t.Errorf("graph statement params mismatch: %v", batch[0].Params)
	}

	for i := 1; i <= 2; i++ {
		if batch[i].Cypher != createNodeCypher {
			t.Fatalf("statement %d is not a node create:\n%s", i, batch[i].Cypher)
		}
	}
	props, ok := batch[2].Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", batch[2].Params["props"])
	}
	if props["id"] != "n2" {
		t.Errorf("expected node id n2, got %v", props["id"])
	}
	if props["weight"] != 2 {
		t.Errorf("expected extra property to survive, got %v", props["weight"])
	}

	if batch[3].Cypher != createEdgeCypher {
		t.Fatalf("last statement is not an edge create:\n%s", batch[3].Cypher)
	}
	if batch[3].Params["edgeId"] != "e1" || batch[3].Params["source"] != "n1" || batch[3].Params["target"] != "n2" {
		t.Errorf("edge statement params mismatch: %v", batch[3].Params)
	}

	if writes := mem.WriteCalls(); len(writes) != 0 {
		t.Errorf("import must not issue standalone writes, got %d", len(writes))
	}
}

func TestRepository_FetchGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"graphId": "graph-1"},
	}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"node": map[string]any{"id": "n1", "label": "Contact", "content": "c1"}},
		{"node": map[string]any{"id": "n2", "label": "Awareness", "content": "c2"}},
	}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"id": "e1", "source": "n1", "target": "n2"},
	}})

	doc, err := repo.FetchGraph(context.Background(), "graph-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].ID != "n1" || doc.Nodes[0].Label != "Contact" {
		t.Errorf("unexpected first node: %+v", doc.Nodes[0])
	}
	if len(doc.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(doc.Edges))
	}
	if doc.Edges[0].ID != "e1" || doc.Edges[0].Source != "n1" || doc.Edges[0].Target != "n2" {
		t.Errorf("unexpected edge: %+v", doc.Edges[0])
	}
}

func TestRepository_FetchGraph_Missing(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	// No canned result: the existence query comes back empty.
	_, err := repo.FetchGraph(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_FetchGraph_EmptyGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{{"graphId": "graph-1"}}})
	mem.PushReadResult(graph.Result{})
	mem.PushReadResult(graph.Result{})

	doc, err := repo.FetchGraph(context.Background(), "graph-1")
	if err != nil {
		t.Fatalf("an existing graph with zero nodes is not an error, got %v", err)
	}
	if doc.Nodes == nil || doc.Edges == nil {
		t.Fatalf("expected empty slices, got %+v", doc)
	}
	if len(doc.Nodes) != 0 || len(doc.Edges) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestRepository_DeleteGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Summary: graph.Summary{NodesDeleted: 3, RelationshipsDeleted: 2}})
	if err := repo.DeleteGraph(context.Background(), "graph-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Query != deleteGraphCypher {
		t.Fatalf("unexpected write calls: %+v", calls)
	}

	// Second delete reports zero mutations.
	mem.PushWriteResult(graph.Result{})
	err := repo.DeleteGraph(context.Background(), "graph-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestRepository_CreateNode_MissingGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	_, err := repo.CreateNode(context.Background(), "nope", domain.Node{ID: "n1", Label: "L"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if writes := mem.WriteCalls(); len(writes) != 0 {
		t.Errorf("no write should happen for a missing graph, got %d", len(writes))
	}
}

func TestRepository_CreateNode_DuplicateID(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"graphId": "graph-1", "duplicate": "n1"},
	}})

	_, err := repo.CreateNode(context.Background(), "graph-1", domain.Node{ID: "n1", Label: "L"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRepository_CreateNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"graphId": "graph-1", "duplicate": nil},
	}})
	mem.PushWriteResult(graph.Result{
		Records: []graph.Record{
			{"node": map[string]any{"id": "n1", "label": "Contact", "content": "c"}},
		},
		Summary: graph.Summary{NodesCreated: 1, RelationshipsCreated: 1},
	})

	node, err := repo.CreateNode(context.Background(), "graph-1", domain.Node{ID: "n1", Label: "Contact", Content: "c"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if node.ID != "n1" || node.Label != "Contact" {
		t.Errorf("unexpected node: %+v", node)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Query != createNodeReturningCypher {
		t.Fatalf("unexpected write calls: %+v", calls)
	}
	props, ok := calls[0].Params["props"].(map[string]any)
	if !ok || props["id"] != "n1" {
		t.Errorf("unexpected props param: %v", calls[0].Params["props"])
	}
}

func TestRepository_UpdateNodeProperties(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"node": map[string]any{"id": "n1", "label": "Renamed", "content": "unchanged"}},
	}})

	node, err := repo.UpdateNodeProperties(context.Background(), "graph-1", "n1", map[string]any{"label": "Renamed"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if node.Label != "Renamed" || node.Content != "unchanged" {
		t.Errorf("unexpected node: %+v", node)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Query != updateNodeCypher {
		t.Fatalf("unexpected write calls: %+v", calls)
	}
	props, ok := calls[0].Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", calls[0].Params["props"])
	}
	if len(props) != 1 || props["label"] != "Renamed" {
		t.Errorf("property map must be bound as a parameter: %v", props)
	}
}

func TestRepository_UpdateNodeProperties_NotFound(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	_, err := repo.UpdateNodeProperties(context.Background(), "graph-1", "nope", map[string]any{"label": "X"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_CreateEdge_MissingEndpoint(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	// No rows: at least one endpoint did not match in the target graph.
	_, err := repo.CreateEdge(context.Background(), "graph-1", domain.Edge{ID: "e1", Source: "n1", Target: "ghost"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_DeleteEdge(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Summary: graph.Summary{RelationshipsDeleted: 1}})
	if err := repo.DeleteEdge(context.Background(), "graph-1", "e1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mem.PushWriteResult(graph.Result{})
	err := repo.DeleteEdge(context.Background(), "graph-1", "e1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestRepository_DeleteNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Summary: graph.Summary{NodesDeleted: 1, RelationshipsDeleted: 2}})
	if err := repo.DeleteNode(context.Background(), "graph-1", "n1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Query != deleteNodeCypher {
		t.Fatalf("unexpected write calls: %+v", calls)
	}
	if calls[0].Params["nodeId"] != "n1" || calls[0].Params["graphId"] != "graph-1" {
		t.Errorf("unexpected params: %v", calls[0].Params)
	}
}

func TestRepository_ListGraphs(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"graphId": "g2", "name": "beta"},
		{"graphId": "g1", "name": "Alpha"},
	}})

	graphs, err := repo.ListGraphs(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(graphs) != 2 {
		t.Fatalf("expected 2 graphs, got %d", len(graphs))
	}
	if graphs[0].Name != "Alpha" || graphs[1].Name != "beta" {
		t.Errorf("expected case-insensitive name order, got %+v", graphs)
	}
}

func TestRepository_HasData(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{{"hasNodes": true}}})
	has, err := repo.HasData(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !has {
		t.Fatal("expected store to report data")
	}
}

func TestRepository_StoreErrorsPropagate(t *testing.T) {
	backendErr := errors.New("connection refused")
	mem := graph.NewMemoryClient().WithError(backendErr)
	repo := New(mem)

	if _, err := repo.ListGraphs(context.Background()); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
	if err := repo.DeleteGraph(context.Background(), "g"); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
}
