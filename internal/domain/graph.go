package domain

// Graph is a named, independently deletable container of nodes and edges.
type Graph struct {
	ID   string
	Name string
}

// Node is a labeled entity with free-form content owned by exactly one graph.
// Properties holds the full property map persisted on the node, including id,
// label, content and any extra keys supplied on import.
type Node struct {
	ID         string
	Label      string
	Content    string
	Properties map[string]any
}

// Edge is a directed RELATES_TO relation between two nodes of the same graph.
// The identifier is generated server-side and globally unique.
type Edge struct {
	ID     string
	Source string
	Target string
}

// GraphDocument is the wire-level shape of a graph: its nodes and edges.
type GraphDocument struct {
	Nodes []Node
	Edges []Edge
}

// PropertyMap returns the map to persist for the node, synthesizing one from
// the scalar fields when no explicit property map was provided.
func (n Node) PropertyMap() map[string]any {
	props := make(map[string]any, len(n.Properties)+3)
	for k, v := range n.Properties {
		props[k] = v
	}
	if n.ID != "" {
		props["id"] = n.ID
	}
	if _, ok := props["label"]; !ok {
		props["label"] = n.Label
	}
	if _, ok := props["content"]; !ok {
		props["content"] = n.Content
	}
	return props
}
