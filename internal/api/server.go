package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/edgezone/internal/config"
	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for edgezone.
type Server struct {
	router chi.Router
	zone   kicad.ZoneParams
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. zone is the fill preset
// spliced into every converted board.
func NewServer(zone kicad.ZoneParams, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		zone: zone,
		log:  log,
		cfg:  cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.EdgezoneAPIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/preview", s.handlePreview)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
