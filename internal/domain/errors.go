package domain

import "errors"

// Sentinel errors forming the failure taxonomy shared by the repository,
// service and HTTP layers. Callers classify with errors.Is; additional
// context is layered on with fmt.Errorf("...: %w", err).
var (
	// ErrNotFound signals that no matching graph, node or edge exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument signals missing or malformed required input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict signals a duplicate identifier within the owning graph.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable signals the graph backend could not be reached.
	ErrStoreUnavailable = errors.New("graph store unavailable")
)
