package generator

// Config drives the synthetic graph document generator.
type Config struct {
	NumNodes int
	NumEdges int
	Seed     int64
}

// DefaultConfig returns baseline settings producing a small demo graph.
func DefaultConfig() Config {
	return Config{
		NumNodes: 25,
		NumEdges: 40,
		Seed:     42,
	}
}
