package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avelar/graphdeck/internal/domain"
)

// GraphRepository is the storage contract required by the graph service.
type GraphRepository interface {
	ListGraphs(ctx context.Context) ([]domain.Graph, error)
	ImportGraph(ctx context.Context, g domain.Graph, doc domain.GraphDocument) error
	FetchGraph(ctx context.Context, graphID string) (domain.GraphDocument, error)
	DeleteGraph(ctx context.Context, graphID string) error
	CreateNode(ctx context.Context, graphID string, node domain.Node) (domain.Node, error)
	UpdateNodeProperties(ctx context.Context, graphID, nodeID string, props map[string]any) (domain.Node, error)
	UpdateNodeContent(ctx context.Context, nodeID, content string) (domain.Node, error)
	DeleteNode(ctx context.Context, graphID, nodeID string) error
	CreateEdge(ctx context.Context, graphID string, edge domain.Edge) (domain.Edge, error)
	DeleteEdge(ctx context.Context, graphID, edgeID string) error
	HasData(ctx context.Context) (bool, error)
}

// GraphService enforces the consistency rules that keep nodes, edges and
// their owning graph coherent, and delegates persistence to the repository.
type GraphService struct {
	repo  GraphRepository
	newID func() string
}

// NewGraphService constructs a GraphService with UUID identifier generation.
func NewGraphService(repo GraphRepository) *GraphService {
	return &GraphService{
		repo:  repo,
		newID: uuid.NewString,
	}
}

// WithIDGenerator overrides the identifier source (used primarily in tests).
func (s *GraphService) WithIDGenerator(gen func() string) {
	if gen != nil {
		s.newID = gen
	}
}

// ListGraphs returns all graph containers sorted by name.
func (s *GraphService) ListGraphs(ctx context.Context) ([]domain.Graph, error) {
	return s.repo.ListGraphs(ctx)
}

// ImportGraph validates the payload, generates the graph identifier and
// imports the whole document transactionally. Edges whose source or target
// property is missing are skipped, not rejected.
func (s *GraphService) ImportGraph(ctx context.Context, input ImportInput) (domain.Graph, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Graph{}, fmt.Errorf("graph name is required: %w", domain.ErrInvalidArgument)
	}

	g := domain.Graph{
		ID:   s.newID(),
		Name: name,
	}

	doc := domain.GraphDocument{}
	for _, node := range input.Nodes {
		doc.Nodes = append(doc.Nodes, domain.Node{
			ID:         node.ID,
			Label:      node.Label,
			Content:    node.Content,
			Properties: node.Properties,
		})
	}
	for _, edge := range input.Edges {
		if !edge.SourcePresent || !edge.TargetPresent {
			continue
		}
		doc.Edges = append(doc.Edges, domain.Edge{
			ID:     s.newID(),
			Source: edge.Source,
			Target: edge.Target,
		})
	}

	if err := s.repo.ImportGraph(ctx, g, doc); err != nil {
		return domain.Graph{}, err
	}
	return g, nil
}

// GetGraph returns the full document for a graph.
func (s *GraphService) GetGraph(ctx context.Context, graphID string) (domain.GraphDocument, error) {
	return s.repo.FetchGraph(ctx, graphID)
}

// DeleteGraph cascades to all owned nodes and their edges.
func (s *GraphService) DeleteGraph(ctx context.Context, graphID string) error {
	return s.repo.DeleteGraph(ctx, graphID)
}

// CreateNode attaches a new node to an existing graph.
func (s *GraphService) CreateNode(ctx context.Context, graphID string, input NodeInput) (domain.Node, error) {
	if strings.TrimSpace(input.ID) == "" {
		return domain.Node{}, fmt.Errorf("node id is required: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.Label) == "" {
		return domain.Node{}, fmt.Errorf("node label is required: %w", domain.ErrInvalidArgument)
	}

	return s.repo.CreateNode(ctx, graphID, domain.Node{
		ID:         input.ID,
		Label:      input.Label,
		Content:    input.Content,
		Properties: input.Properties,
	})
}

// UpdateNode applies a partial property map onto the node matched by
// (nodeId, graphId). The node identifier is not updatable; an empty map is
// rejected rather than silently succeeding.
func (s *GraphService) UpdateNode(ctx context.Context, graphID, nodeID string, props map[string]any) (domain.Node, error) {
	sanitized := make(map[string]any, len(props))
	for k, v := range props {
		if k == "id" {
			continue
		}
		sanitized[k] = v
	}
	if len(sanitized) == 0 {
		return domain.Node{}, fmt.Errorf("no updatable properties supplied: %w", domain.ErrInvalidArgument)
	}
	return s.repo.UpdateNodeProperties(ctx, graphID, nodeID, sanitized)
}

// UpdateNodeContent updates a node's content by its global identifier.
func (s *GraphService) UpdateNodeContent(ctx context.Context, nodeID, content string) (domain.Node, error) {
	return s.repo.UpdateNodeContent(ctx, nodeID, content)
}

// DeleteNode cascades to every edge attached to the node.
func (s *GraphService) DeleteNode(ctx context.Context, graphID, nodeID string) error {
	return s.repo.DeleteNode(ctx, graphID, nodeID)
}

// CreateEdge links two nodes that both belong to the target graph and
// assigns the generated edge identifier.
func (s *GraphService) CreateEdge(ctx context.Context, graphID, source, target string) (domain.Edge, error) {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "" {
		return domain.Edge{}, fmt.Errorf("edge source and target are required: %w", domain.ErrInvalidArgument)
	}
	return s.repo.CreateEdge(ctx, graphID, domain.Edge{
		ID:     s.newID(),
		Source: source,
		Target: target,
	})
}

// DeleteEdge removes the edge matched by (graphId, edgeId).
func (s *GraphService) DeleteEdge(ctx context.Context, graphID, edgeID string) error {
	return s.repo.DeleteEdge(ctx, graphID, edgeID)
}

// HasData reports whether the store holds any nodes.
func (s *GraphService) HasData(ctx context.Context) (bool, error) {
	return s.repo.HasData(ctx)
}
