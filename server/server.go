// Package server exposes portfolio valuations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// EngineFunc returns an engine over a fresh feed snapshot.
type EngineFunc func(ctx context.Context) (*holdings.Engine, error)

// Config holds server configuration.
type Config struct {
	Addr   string
	Log    zerolog.Logger
	Store  holdings.TransactionStore
	Engine EngineFunc
}

// Server is the HTTP API.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	store  holdings.TransactionStore
	engine EngineFunc
}

// New creates a server; call Start to listen.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		store:  cfg.Store,
		engine: cfg.Engine,
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/portfolios", s.handlePortfolios)
	s.router.Route("/portfolios/{id}", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.Get("/summary", s.handleSummary)
		r.Get("/daily", s.handleDaily)
	})
}

// Start listens until Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePortfolios lists the portfolio ids when the store can enumerate them.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(interface {
		Portfolios(ctx context.Context) ([]string, error)
	})
	if !ok {
		writeError(w, http.StatusNotImplemented, "the store cannot list portfolios")
		return
	}
	ids, err := lister.Portfolios(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing portfolios")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"portfolios": ids})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	report, ok := s.evaluate(w, r)
	if !ok {
		return
	}
	if wantsMarkdown(r) {
		s.writeMarkdown(w, renderer.Positions, report)
		return
	}
	writeJSON(w, http.StatusOK, newPositionsView(report))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := s.evaluate(w, r)
	if !ok {
		return
	}
	if wantsMarkdown(r) {
		s.writeMarkdown(w, renderer.Summary, report)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryView(report))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	report, ok := s.evaluate(w, r)
	if !ok {
		return
	}
	if wantsMarkdown(r) {
		s.writeMarkdown(w, renderer.Daily, report)
		return
	}
	writeJSON(w, http.StatusOK, newDailyView(report))
}

// evaluate builds the report of the {id} portfolios grouped by ?by=. It
// writes the error response itself and returns false on failure.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) (holdings.Report, bool) {
	kind := holdings.BySymbol
	if by := r.URL.Query().Get("by"); by != "" {
		k, err := holdings.ParseGroupKind(by)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return holdings.Report{}, false
		}
		kind = k
	}

	snap, err := holdings.Collect(r.Context(), s.store, portfolioIDs(chi.URLParam(r, "id"))...)
	if err != nil {
		s.log.Error().Err(err).Msg("collecting transactions")
		writeError(w, http.StatusInternalServerError, err.Error())
		return holdings.Report{}, false
	}
	e, err := s.engine(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("loading price feed")
		writeError(w, http.StatusBadGateway, err.Error())
		return holdings.Report{}, false
	}
	return e.Evaluate(snap.Transactions, kind), true
}

// portfolioIDs splits "main,kids". "all" selects every portfolio.
func portfolioIDs(param string) []string {
	if param == "all" {
		return []string{""}
	}
	return strings.Split(param, ",")
}

func wantsMarkdown(r *http.Request) bool {
	return r.URL.Query().Get("format") == "md" || strings.Contains(r.Header.Get("Accept"), "text/markdown")
}

func (s *Server) writeMarkdown(w http.ResponseWriter, render func(holdings.Report) (string, error), report holdings.Report) {
	out, err := render(report)
	if err != nil {
		s.log.Error().Err(err).Msg("rendering markdown")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
