package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avelar/graphdeck/internal/domain"
	"github.com/avelar/graphdeck/internal/graph"
)

// Repository encapsulates graph persistence operations. Every method opens a
// scoped session through the client and issues parameterized statements; the
// bulk import is the only multi-statement operation and runs inside a single
// transaction.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema installs the uniqueness constraints the consistency rules rely
// on. Graph identifiers are generated, but the constraint guards against
// operator-driven duplicates; edge identifiers get the same treatment.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{graphIDConstraintCypher, edgeIDConstraintCypher} {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ListGraphs returns every graph container sorted by name.
func (r *Repository) ListGraphs(ctx context.Context) ([]domain.Graph, error) {
	res, err := r.client.ExecuteRead(ctx, listGraphsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list graphs query: %w", err)
	}

	graphs := make([]domain.Graph, 0, len(res.Records))
	for _, record := range res.Records {
		graphs = append(graphs, domain.Graph{
			ID:   toString(record["graphId"]),
			Name: toString(record["name"]),
		})
	}

	// The backend already orders by name; keep the guarantee even when a
	// client implementation does not honor ORDER BY.
	sort.SliceStable(graphs, func(i, j int) bool {
		return strings.ToLower(graphs[i].Name) < strings.ToLower(graphs[j].Name)
	})

	return graphs, nil
}

// ImportGraph creates the graph container, all nodes and all edges in one
// atomic transaction. A failed statement leaves no orphaned entities behind.
func (r *Repository) ImportGraph(ctx context.Context, g domain.Graph, doc domain.GraphDocument) error {
	statements := make([]graph.Statement, 0, 1+len(doc.Nodes)+len(doc.Edges))

	statements = append(statements, graph.Statement{
		Cypher: createGraphCypher,
		Params: map[string]any{
			"graphId": g.ID,
			"name":    g.Name,
		},
	})

	for _, node := range doc.Nodes {
		statements = append(statements, graph.Statement{
			Cypher: createNodeCypher,
			Params: map[string]any{
				"graphId": g.ID,
				"props":   node.PropertyMap(),
			},
		})
	}

	for _, edge := range doc.Edges {
		statements = append(statements, graph.Statement{
			Cypher: createEdgeCypher,
			Params: map[string]any{
				"graphId": g.ID,
				"edgeId":  edge.ID,
				"source":  edge.Source,
				"target":  edge.Target,
			},
		})
	}

	if _, err := r.client.ExecuteBatch(ctx, statements); err != nil {
		return fmt.Errorf("import graph %s: %w", g.ID, err)
	}
	return nil
}

// GraphExists reports whether the graph container itself is present,
// independent of how many nodes it owns.
func (r *Repository) GraphExists(ctx context.Context, graphID string) (bool, error) {
	res, err := r.client.ExecuteRead(ctx, graphExistsCypher, map[string]any{
		"graphId": graphID,
	})
	if err != nil {
		return false, fmt.Errorf("graph existence query: %w", err)
	}
	return len(res.Records) > 0, nil
}

// FetchGraph collects all nodes owned by the graph and all edges whose both
// endpoints belong to it. Returns domain.ErrNotFound when the graph container
// does not exist.
func (r *Repository) FetchGraph(ctx context.Context, graphID string) (domain.GraphDocument, error) {
	exists, err := r.GraphExists(ctx, graphID)
	if err != nil {
		return domain.GraphDocument{}, err
	}
	if !exists {
		return domain.GraphDocument{}, fmt.Errorf("graph %s: %w", graphID, domain.ErrNotFound)
	}

	doc := domain.GraphDocument{
		Nodes: []domain.Node{},
		Edges: []domain.Edge{},
	}

	nodeRes, err := r.client.ExecuteRead(ctx, graphNodesCypher, map[string]any{
		"graphId": graphID,
	})
	if err != nil {
		return domain.GraphDocument{}, fmt.Errorf("fetch graph nodes: %w", err)
	}
	for _, record := range nodeRes.Records {
		doc.Nodes = append(doc.Nodes, nodeFromProperties(record["node"]))
	}

	edgeRes, err := r.client.ExecuteRead(ctx, graphEdgesCypher, map[string]any{
		"graphId": graphID,
	})
	if err != nil {
		return domain.GraphDocument{}, fmt.Errorf("fetch graph edges: %w", err)
	}
	for _, record := range edgeRes.Records {
		doc.Edges = append(doc.Edges, domain.Edge{
			ID:     toString(record["id"]),
			Source: toString(record["source"]),
			Target: toString(record["target"]),
		})
	}

	return doc, nil
}

// DeleteGraph removes the graph, every owned node and every edge touching
// them in a single statement. Zero deleted nodes means the graph was absent.
func (r *Repository) DeleteGraph(ctx context.Context, graphID string) error {
	res, err := r.client.ExecuteWrite(ctx, deleteGraphCypher, map[string]any{
		"graphId": graphID,
	})
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", graphID, err)
	}
	// The container node itself counts, so an existing graph always reports
	// at least one deleted node.
	if res.Summary.NodesDeleted == 0 {
		return fmt.Errorf("graph %s: %w", graphID, domain.ErrNotFound)
	}
	return nil
}

// CreateNode attaches a new node to the graph, creating the ownership
// relation atomically with the node. The duplicate pre-check keeps node ids
// unique per graph.
func (r *Repository) CreateNode(ctx context.Context, graphID string, node domain.Node) (domain.Node, error) {
	check, err := r.client.ExecuteRead(ctx, nodeDuplicateCheckCypher, map[string]any{
		"graphId": graphID,
		"nodeId":  node.ID,
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("node duplicate check: %w", err)
	}
	if len(check.Records) == 0 {
		return domain.Node{}, fmt.Errorf("graph %s: %w", graphID, domain.ErrNotFound)
	}
	if toString(check.Records[0]["duplicate"]) != "" {
		return domain.Node{}, fmt.Errorf("node %s already exists in graph %s: %w", node.ID, graphID, domain.ErrConflict)
	}

	res, err := r.client.ExecuteWrite(ctx, createNodeReturningCypher, map[string]any{
		"graphId": graphID,
		"props":   node.PropertyMap(),
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("create node %s: %w", node.ID, err)
	}
	if len(res.Records) == 0 {
		// The graph disappeared between the check and the create.
		return domain.Node{}, fmt.Errorf("graph %s: %w", graphID, domain.ErrNotFound)
	}

	return nodeFromProperties(res.Records[0]["node"]), nil
}

// UpdateNodeProperties applies a partial property map onto the node matched
// by (nodeId, graphId). The map is bound as a single $props parameter and
// merged with SET +=, never interpolated into statement text.
func (r *Repository) UpdateNodeProperties(ctx context.Context, graphID, nodeID string, props map[string]any) (domain.Node, error) {
	res, err := r.client.ExecuteWrite(ctx, updateNodeCypher, map[string]any{
		"graphId": graphID,
		"nodeId":  nodeID,
		"props":   props,
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("update node %s: %w", nodeID, err)
	}
	if len(res.Records) == 0 {
		return domain.Node{}, fmt.Errorf("node %s in graph %s: %w", nodeID, graphID, domain.ErrNotFound)
	}
	return nodeFromProperties(res.Records[0]["node"]), nil
}

// UpdateNodeContent updates the content of a node matched by its global id,
// regardless of owning graph.
func (r *Repository) UpdateNodeContent(ctx context.Context, nodeID, content string) (domain.Node, error) {
	res, err := r.client.ExecuteWrite(ctx, updateNodeContentCypher, map[string]any{
		"nodeId":  nodeID,
		"content": content,
	})
	if err != nil {
		return domain.Node{}, fmt.Errorf("update node content %s: %w", nodeID, err)
	}
	if len(res.Records) == 0 {
		return domain.Node{}, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	return nodeFromProperties(res.Records[0]["node"]), nil
}

// DeleteNode removes the node and every edge attached to it.
func (r *Repository) DeleteNode(ctx context.Context, graphID, nodeID string) error {
	res, err := r.client.ExecuteWrite(ctx, deleteNodeCypher, map[string]any{
		"graphId": graphID,
		"nodeId":  nodeID,
	})
	if err != nil {
		return fmt.Errorf("delete node %s: %w", nodeID, err)
	}
	if res.Summary.NodesDeleted == 0 {
		return fmt.Errorf("node %s in graph %s: %w", nodeID, graphID, domain.ErrNotFound)
	}
	return nil
}

// CreateEdge links two nodes that both belong to the target graph. A missing
// endpoint yields no match rows and therefore domain.ErrNotFound.
func (r *Repository) CreateEdge(ctx context.Context, graphID string, edge domain.Edge) (domain.Edge, error) {
	res, err := r.client.ExecuteWrite(ctx, createEdgeReturningCypher, map[string]any{
		"graphId": graphID,
		"edgeId":  edge.ID,
		"source":  edge.Source,
		"target":  edge.Target,
	})
	if err != nil {
		return domain.Edge{}, fmt.Errorf("create edge %s->%s: %w", edge.Source, edge.Target, err)
	}
	if len(res.Records) == 0 {
		return domain.Edge{}, fmt.Errorf("endpoints %s/%s in graph %s: %w", edge.Source, edge.Target, graphID, domain.ErrNotFound)
	}

	record := res.Records[0]
	return domain.Edge{
		ID:     toString(record["id"]),
		Source: toString(record["source"]),
		Target: toString(record["target"]),
	}, nil
}

// DeleteEdge removes the edge matched by (graphId, edgeId) across both
// endpoints. Zero deleted relationships means the edge was absent.
func (r *Repository) DeleteEdge(ctx context.Context, graphID, edgeID string) error {
	res, err := r.client.ExecuteWrite(ctx, deleteEdgeCypher, map[string]any{
		"graphId": graphID,
		"edgeId":  edgeID,
	})
	if err != nil {
		return fmt.Errorf("delete edge %s: %w", edgeID, err)
	}
	if res.Summary.RelationshipsDeleted == 0 {
		return fmt.Errorf("edge %s in graph %s: %w", edgeID, graphID, domain.ErrNotFound)
	}
	return nil
}

// HasData reports whether any node exists in the store, used to decide
// whether one-time seeding should run.
func (r *Repository) HasData(ctx context.Context) (bool, error) {
	res, err := r.client.ExecuteRead(ctx, hasDataCypher, nil)
	if err != nil {
		return false, fmt.Errorf("has data query: %w", err)
	}
	if len(res.Records) == 0 {
		return false, nil
	}
	has, _ := res.Records[0]["hasNodes"].(bool)
	return has, nil
}

func nodeFromProperties(val any) domain.Node {
	props, _ := val.(map[string]any)
	node := domain.Node{
		ID:         toString(props["id"]),
		Label:      toString(props["label"]),
		Content:    toString(props["content"]),
		Properties: map[string]any{},
	}
	for k, v := range props {
		node.Properties[k] = v
	}
	return node
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

const graphIDConstraintCypher = `
CREATE CONSTRAINT graph_graph_id IF NOT EXISTS
FOR (g:Graph) REQUIRE g.graphId IS UNIQUE
`

const edgeIDConstraintCypher = `
CREATE CONSTRAINT relates_to_edge_id IF NOT EXISTS
FOR ()-[r:RELATES_TO]-() REQUIRE r.id IS UNIQUE
`

const listGraphsCypher = `
MATCH (g:Graph)
RETURN g.graphId AS graphId, g.name AS name
ORDER BY toLower(g.name)
`

const createGraphCypher = `
CREATE (g:Graph {graphId: $graphId, name: $name})
`

const createNodeCypher = `
MATCH (g:Graph {graphId: $graphId})
CREATE (n:Node)-[:BELONGS_TO]->(g)
SET n = $props
`

const createNodeReturningCypher = `
MATCH (g:Graph {graphId: $graphId})
CREATE (n:Node)-[:BELONGS_TO]->(g)
SET n = $props
RETURN properties(n) AS node
`

const nodeDuplicateCheckCypher = `
MATCH (g:Graph {graphId: $graphId})
OPTIONAL MATCH (dup:Node {id: $nodeId})-[:BELONGS_TO]->(g)
RETURN g.graphId AS graphId, dup.id AS duplicate
`

const graphExistsCypher = `
MATCH (g:Graph {graphId: $graphId})
RETURN g.graphId AS graphId
`

const graphNodesCypher = `
MATCH (n:Node)-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
RETURN properties(n) AS node
ORDER BY n.id
`

const graphEdgesCypher = `
MATCH (a:Node)-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
MATCH (b:Node)-[:BELONGS_TO]->(g)
MATCH (a)-[r:RELATES_TO]->(b)
RETURN r.id AS id, a.id AS source, b.id AS target
`

const deleteGraphCypher = `
MATCH (g:Graph {graphId: $graphId})
OPTIONAL MATCH (n:Node)-[:BELONGS_TO]->(g)
DETACH DELETE n, g
`

const updateNodeCypher = `
MATCH (n:Node {id: $nodeId})-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
SET n += $props
RETURN properties(n) AS node
`

const updateNodeContentCypher = `
MATCH (n:Node {id: $nodeId})
SET n.content = $content
RETURN properties(n) AS node
`

const deleteNodeCypher = `
MATCH (n:Node {id: $nodeId})-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
DETACH DELETE n
`

const createEdgeCypher = `
MATCH (a:Node {id: $source})-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
MATCH (b:Node {id: $target})-[:BELONGS_TO]->(g)
CREATE (a)-[:RELATES_TO {id: $edgeId}]->(b)
`

const createEdgeReturningCypher = `
MATCH (a:Node {id: $source})-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
MATCH (b:Node {id: $target})-[:BELONGS_TO]->(g)
CREATE (a)-[r:RELATES_TO {id: $edgeId}]->(b)
RETURN r.id AS id, a.id AS source, b.id AS target
`

const deleteEdgeCypher = `
MATCH (a:Node)-[r:RELATES_TO {id: $edgeId}]->(b:Node)
MATCH (a)-[:BELONGS_TO]->(g:Graph {graphId: $graphId})
MATCH (b)-[:BELONGS_TO]->(g)
DELETE r
`

const hasDataCypher = `
MATCH (n:Node)
RETURN count(n) > 0 AS hasNodes
`
