package service

// NodeInput captures inbound node data. Extra keys beyond id/label/content
// are carried in Properties and persisted verbatim.
type NodeInput struct {
	ID         string
	Label      string
	Content    string
	Properties map[string]any
}

// EdgeInput captures inbound edge endpoint identifiers. The Present flags
// distinguish an absent source/target property from an empty one: absent
// endpoints make the edge skippable on import, not an error.
type EdgeInput struct {
	Source        string
	Target        string
	SourcePresent bool
	TargetPresent bool
}

// ImportInput is the payload accepted by the bulk importer.
type ImportInput struct {
	Name  string
	Nodes []NodeInput
	Edges []EdgeInput
}

// NodeInputFromData converts a raw node data map into a NodeInput, keeping
// unknown keys as extra properties.
func NodeInputFromData(data map[string]any) NodeInput {
	node := NodeInput{Properties: map[string]any{}}
	for k, v := range data {
		switch k {
		case "id":
			node.ID = asString(v)
		case "label":
			node.Label = asString(v)
		case "content":
			node.Content = asString(v)
		default:
			node.Properties[k] = v
		}
	}
	return node
}

// EdgeInputFromData converts a raw edge data map into an EdgeInput, tracking
// whether the source and target keys were present at all.
func EdgeInputFromData(data map[string]any) EdgeInput {
	var edge EdgeInput
	if v, ok := data["source"]; ok {
		edge.Source = asString(v)
		edge.SourcePresent = true
	}
	if v, ok := data["target"]; ok {
		edge.Target = asString(v)
		edge.TargetPresent = true
	}
	return edge
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
