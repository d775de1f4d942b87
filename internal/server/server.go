package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marks-cli/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config configures the companion server. It stands in for the
// server-rendered site during development: it emits the bootstrap payload
// and serves the suggestion/click API the client expects.
type Config struct {
	Addr     string
	SeedPath string

	// Advertised in the bootstrap payload.
	Theme    string
	Language string
	Version  string
	// User, when set, is advertised as the signed-in account; nil payloads
	// an anonymous session.
	User *model.User
}

type Server struct {
	cfg   Config
	log   zerolog.Logger
	store *memStore

	// csrfToken is minted once per process; every state-mutating request
	// must echo it back.
	csrfToken string
}

func New(cfg Config, log zerolog.Logger) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.SeedPath = strings.TrimSpace(cfg.SeedPath)
	if cfg.Addr == "" {
		return nil, errors.New("server: addr is empty")
	}
	if cfg.SeedPath == "" {
		return nil, errors.New("server: seed path is empty")
	}
	if cfg.Theme == "" {
		cfg.Theme = "light"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	store, err := loadSeed(cfg.SeedPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		store:     store,
		csrfToken: uuid.NewString(),
	}, nil
}

// CSRFToken returns the token the server minted for this process.
func (s *Server) CSRFToken() string { return s.csrfToken }

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-CSRF-Token"},
	}))
	r.Use(s.requestLogger)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/bootstrap", s.handleBootstrap)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/websites", s.handleWebsites)
		r.Post("/websites/{id}/click", s.handleClick)
	})
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("serving")
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sr.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleBootstrap emits the one-shot configuration object the client's
// bridge parses. Key names are part of the wire contract.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"apiBaseUrl": apiBaseURL(r),
		"theme":      s.cfg.Theme,
		"user":       s.cfg.User,
		"csrfToken":  s.csrfToken,
		"language":   s.cfg.Language,
		"version":    s.cfg.Version,
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	results := s.store.suggest(term, limit)
	suggestResultCount.Observe(float64(len(results)))
	writeJSON(w, http.StatusOK, map[string]any{
		"query":       term,
		"suggestions": results,
	})
}

func (s *Server) handleWebsites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"websites": s.store.all()})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-CSRF-Token") != s.csrfToken {
		writeError(w, http.StatusForbidden, "missing or invalid CSRF token")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bookmark id")
		return
	}
	count, ok := s.store.click(id)
	if !ok {
		writeError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	clicksTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "clickCount": count})
}

// apiBaseURL derives the advertised API base from the request so clients
// behind port-forwards get a reachable URL.
func apiBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
