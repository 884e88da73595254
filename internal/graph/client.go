package graph

import (
	"context"
	"errors"
)

// Client defines the minimal contract required by the repository to interact
// with the underlying graph database.
type Client interface {
	// ExecuteWrite runs a single parameterized statement in a write session.
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	// ExecuteRead runs a single parameterized statement in a read session.
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	// ExecuteBatch runs every statement inside one managed write transaction;
	// any failure rolls the whole batch back.
	ExecuteBatch(ctx context.Context, statements []Statement) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Statement pairs a cypher string with its bound parameters.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
	Summary Summary
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Summary carries the mutation counters reported by the backend. Zero
// counters on a delete are how the repository distinguishes "not found"
// from success.
type Summary struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
}

// Add accumulates counters from another summary (used across a batch).
func (s *Summary) Add(other Summary) {
	s.NodesCreated += other.NodesCreated
	s.NodesDeleted += other.NodesDeleted
	s.RelationshipsCreated += other.RelationshipsCreated
	s.RelationshipsDeleted += other.RelationshipsDeleted
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
