package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelar/graphdeck/internal/config"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health         HealthService
	API            *APIHandlers
	Static         config.StaticConfig
	AllowedOrigins []string
}

// NewRouter wires the HTTP routes exposed by the backend API. Everything that
// does not match an API route falls through to the static frontend.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(logger))

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	})

	if deps.API != nil {
		router.Route("/api", func(r chi.Router) {
			r.Route("/graphs", func(r chi.Router) {
				r.Get("/", deps.API.listGraphs)
				r.Post("/", deps.API.importGraph)

				r.Route("/{graphID}", func(r chi.Router) {
					r.Get("/", deps.API.getGraph)
					r.Delete("/", deps.API.deleteGraph)
					r.Post("/nodes", deps.API.createNode)
					r.Put("/nodes/{nodeID}", deps.API.updateNode)
					r.Delete("/nodes/{nodeID}", deps.API.deleteNode)
					r.Post("/edges", deps.API.createEdge)
					r.Delete("/edges/{edgeID}", deps.API.deleteEdge)
				})
			})

			// Legacy graph-agnostic content update kept for older frontends.
			r.Put("/node/{nodeID}", deps.API.updateNodeContent)

			r.Post("/seed", deps.API.seedStore)
		})
	}

	static := newStaticHandler(deps.Static)
	router.NotFound(static.ServeHTTP)

	return router
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
