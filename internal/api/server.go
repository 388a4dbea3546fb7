package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clauselens/clauselens/internal/analyze"
	"github.com/clauselens/clauselens/internal/storage"
)

// ServerConfig carries the collaborators the HTTP layer glues together
type ServerConfig struct {
	Analyzer     *analyze.Service
	AnalysisRepo storage.AnalysisRepository // optional; nil disables history
}

// Server is the HTTP surface over the analysis core
type Server struct {
	router       *chi.Mux
	analyzer     *analyze.Service
	analysisRepo storage.AnalysisRepository
}

// NewServer creates the router and wires all routes
func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:       r,
		analyzer:     cfg.Analyzer,
		analysisRepo: cfg.AnalysisRepo,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyzeDocument)
		r.Post("/analyze/text", s.handleAnalyzeText)
		r.Get("/analyses", s.handleListAnalyses)

		// Pattern review
		r.Route("/patterns", func(r chi.Router) {
			r.Get("/core", s.handleGetCorePatterns)
			r.Get("/custom", s.handleGetCustomPatterns)
			r.Get("/pending", s.handleGetPendingPatterns)
			r.Post("/promote", s.handlePromotePattern)
			r.Delete("/pending", s.handleRejectPattern)
			r.Post("/", s.handleAddPattern)
		})
	})
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
