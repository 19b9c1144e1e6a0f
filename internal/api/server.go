package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hilite-dev/hilite/internal/config"
	"github.com/hilite-dev/hilite/internal/controller"
	"github.com/hilite-dev/hilite/internal/docstore"
	"github.com/hilite-dev/hilite/internal/store"
)

// Server is the HTTP API server for hilite.
type Server struct {
	router     chi.Router
	docs       *docstore.Registry
	ctrl       *controller.Controller
	selections store.Store
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(docs *docstore.Registry, ctrl *controller.Controller, selections store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		docs:       docs,
		ctrl:       ctrl,
		selections: selections,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Post("/api/documents/{docID}/selection", s.handleCaptureSelection)
		r.Get("/api/documents/{docID}/selection", s.handleGetSelection)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
