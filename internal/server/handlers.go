package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelar/graphdeck/internal/config"
	"github.com/avelar/graphdeck/internal/domain"
	"github.com/avelar/graphdeck/internal/seed"
	"github.com/avelar/graphdeck/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.GraphService
	seeder  *seed.Runner
	seedCfg config.SeedConfig
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.GraphService, seeder *seed.Runner, seedCfg config.SeedConfig) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
		seeder:  seeder,
		seedCfg: seedCfg,
	}
}

func (h *APIHandlers) listGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.service.ListGraphs(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to list graphs")
		return
	}

	resp := make([]graphSummaryResponse, 0, len(graphs))
	for _, g := range graphs {
		resp = append(resp, graphSummaryResponse{
			GraphID: g.ID,
			Name:    g.Name,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) importGraph(w http.ResponseWriter, r *http.Request) {
	var payload importRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.ImportInput{Name: payload.Name}
	for _, node := range payload.Data.Nodes {
		input.Nodes = append(input.Nodes, service.NodeInputFromData(node.Data))
	}
	for _, edge := range payload.Data.Edges {
		input.Edges = append(input.Edges, service.EdgeInputFromData(edge.Data))
	}

	g, err := h.service.ImportGraph(r.Context(), input)
	if err != nil {
		h.respondError(w, err, "failed to import graph")
		return
	}

	respondJSON(w, http.StatusCreated, importResponse{
		Message: "Graph imported successfully.",
		GraphID: g.ID,
	})
}

func (h *APIHandlers) getGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	doc, err := h.service.GetGraph(r.Context(), graphID)
	if err != nil {
		h.respondError(w, err, "failed to fetch graph")
		return
	}

	resp := graphDocumentResponse{
		Nodes: make([]documentEntry, 0, len(doc.Nodes)),
		Edges: make([]documentEntry, 0, len(doc.Edges)),
	}
	for _, node := range doc.Nodes {
		resp.Nodes = append(resp.Nodes, documentEntry{Data: node.Properties})
	}
	for _, edge := range doc.Edges {
		resp.Edges = append(resp.Edges, documentEntry{Data: map[string]any{
			"id":     edge.ID,
			"source": edge.Source,
			"target": edge.Target,
		}})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) deleteGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	if err := h.service.DeleteGraph(r.Context(), graphID); err != nil {
		h.respondError(w, err, "failed to delete graph")
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "Graph deleted."})
}

func (h *APIHandlers) createNode(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	var data map[string]any
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.service.CreateNode(r.Context(), graphID, service.NodeInputFromData(data))
	if err != nil {
		h.respondError(w, err, "failed to create node")
		return
	}

	respondJSON(w, http.StatusCreated, node.Properties)
}

func (h *APIHandlers) updateNode(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	nodeID := chi.URLParam(r, "nodeID")

	var props map[string]any
	if err := decodeJSON(r, &props); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.service.UpdateNode(r.Context(), graphID, nodeID, props)
	if err != nil {
		h.respondError(w, err, "failed to update node")
		return
	}

	respondJSON(w, http.StatusOK, node.Properties)
}

func (h *APIHandlers) deleteNode(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	nodeID := chi.URLParam(r, "nodeID")

	if err := h.service.DeleteNode(r.Context(), graphID, nodeID); err != nil {
		h.respondError(w, err, "failed to delete node")
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "Node deleted."})
}

func (h *APIHandlers) createEdge(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	var payload edgeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	edge, err := h.service.CreateEdge(r.Context(), graphID, payload.Source, payload.Target)
	if err != nil {
		h.respondError(w, err, "failed to create edge")
		return
	}

	respondJSON(w, http.StatusCreated, edgeResponse{
		Message: "Edge created.",
		Data: edgeData{
			ID:     edge.ID,
			Source: edge.Source,
			Target: edge.Target,
		},
	})
}

func (h *APIHandlers) deleteEdge(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	edgeID := chi.URLParam(r, "edgeID")

	if err := h.service.DeleteEdge(r.Context(), graphID, edgeID); err != nil {
		h.respondError(w, err, "failed to delete edge")
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "Edge deleted."})
}

func (h *APIHandlers) updateNodeContent(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var payload contentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Content == nil {
		writeError(w, http.StatusBadRequest, "missing 'content' in request body")
		return
	}

	node, err := h.service.UpdateNodeContent(r.Context(), nodeID, *payload.Content)
	if err != nil {
		h.respondError(w, err, "failed to update node content")
		return
	}

	respondJSON(w, http.StatusOK, node.Properties)
}

func (h *APIHandlers) seedStore(w http.ResponseWriter, r *http.Request) {
	if h.seeder == nil {
		writeError(w, http.StatusInternalServerError, "seeding is not configured")
		return
	}

	err := h.seeder.Run(r.Context(), h.seedCfg.File, h.seedCfg.GraphName)
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		respondJSON(w, http.StatusOK, messageResponse{Message: "Store already contains data. Seeding skipped."})
	case errors.Is(err, seed.ErrNoSeedFile):
		writeError(w, http.StatusInternalServerError, "seed data file not found")
	case err != nil:
		h.respondError(w, err, "failed to seed store")
	default:
		respondJSON(w, http.StatusCreated, messageResponse{Message: "Store successfully seeded."})
	}
}

// respondError translates the domain error taxonomy into HTTP statuses.
// Unclassified errors surface as generic 500s so backend details stay out of
// responses.
func (h *APIHandlers) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusServiceUnavailable, "graph store unavailable")
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// --- Request & Response DTOs ---

type importRequest struct {
	Name string         `json:"name"`
	Data importDocument `json:"data"`
}

type importDocument struct {
	Nodes []documentEntry `json:"nodes"`
	Edges []documentEntry `json:"edges"`
}

type documentEntry struct {
	Data map[string]any `json:"data"`
}

type edgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// contentRequest uses a pointer so an explicitly empty content string is
// distinguishable from an absent field.
type contentRequest struct {
	Content *string `json:"content"`
}

type graphSummaryResponse struct {
	GraphID string `json:"graphId"`
	Name    string `json:"name"`
}

type importResponse struct {
	Message string `json:"message"`
	GraphID string `json:"graphId"`
}

type graphDocumentResponse struct {
	Nodes []documentEntry `json:"nodes"`
	Edges []documentEntry `json:"edges"`
}

type edgeResponse struct {
	Message string   `json:"message"`
	Data    edgeData `json:"data"`
}

type edgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}
