package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/martha/internal/engage"
	"github.com/MikeSquared-Agency/martha/internal/inbound"
	"github.com/MikeSquared-Agency/martha/internal/report"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

const (
	ServiceName    = "Martha Honeypot API"
	maxBodyBytes   = 1 << 20
	defaultListCap = 100
	maxListCap     = 1000
)

// Version is stamped at build time.
var Version = "dev"

type Engager interface {
	Handle(ctx context.Context, req inbound.Request) engage.TurnResult
}

type IntelligenceSource interface {
	ScamTurns(ctx context.Context, limit uint64) ([]store.Turn, error)
}

type ReportBuilder interface {
	Build(ctx context.Context, sessionID string) (report.Report, bool, error)
}

// Options configures the HTTP surface.
type Options struct {
	Port         int
	APIKey       string
	CORS         CORSOptions
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Backend      string
}

type Server struct {
	router *chi.Mux
	http   *http.Server
	opts   Options
	engine Engager
	intel  IntelligenceSource
	report ReportBuilder
	logger *slog.Logger
}

func NewServer(opts Options, e Engager, in IntelligenceSource, rb ReportBuilder, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(CORS(opts.CORS))

	s := &Server{
		router: router,
		opts:   opts,
		engine: e,
		intel:  in,
		report: rb,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	router.Get("/", s.health)
	router.Get("/health", s.health)
	router.Get("/api/v1/martha/status", s.status)

	router.Route("/v1/honeypot", func(r chi.Router) {
		r.Get("/engage", s.engageHelp)
		r.Group(func(r chi.Router) {
			r.Use(APIKey(opts.APIKey))
			r.Post("/engage", s.engage)
			r.Get("/intelligence", s.intelligence)
			r.Get("/sessions/{sessionID}/report", s.sessionReport)
		})
	})

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": Version,
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	backend := s.opts.Backend
	if backend == "" {
		backend = "fallback"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":   "martha",
		"status":  "engaging",
		"backend": backend,
	})
}

func (s *Server) engageHelp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ready",
		"message": "The Honeypot API is live! Send a POST request to this endpoint to engage the agent.",
		"usage_example": map[string]any{
			"method":  "POST",
			"headers": map[string]string{APIKeyHeader: "your-key", "Content-Type": "application/json"},
			"body": map[string]any{
				"sessionId": "abc-123",
				"message":   map[string]string{"sender": "scammer", "text": "Hello"},
			},
		},
	})
}

// engage always answers 200 with a reply. Unreadable bodies degrade to an
// empty message rather than an error.
func (s *Server) engage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("failed to read engage body", "error", err)
		body = nil
	}

	req := inbound.Normalize(body, time.Now())
	res := s.engine.Handle(r.Context(), req)

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"reply":  res.Reply,
	})
}

type intelligenceEntry struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"session_id"`
	Timestamp          time.Time `json:"timestamp"`
	UPIIDs             []string  `json:"upi_ids"`
	BankAccounts       []string  `json:"bank_accounts"`
	PhishingLinks      []string  `json:"phishing_links"`
	PhoneNumbers       []string  `json:"phone_numbers"`
	SuspiciousKeywords []string  `json:"suspicious_keywords"`
}

func (s *Server) intelligence(w http.ResponseWriter, r *http.Request) {
	limit := uint64(defaultListCap)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxListCap)
	}

	turns, err := s.intel.ScamTurns(r.Context(), limit)
	if err != nil {
		s.logger.Error("list scam turns failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "failed to load intelligence"})
		return
	}

	reports := make([]intelligenceEntry, 0, len(turns))
	for _, t := range turns {
		reports = append(reports, intelligenceEntry{
			ID:                 t.ID,
			SessionID:          store.SessionOf(t.ID),
			Timestamp:          t.CreatedAt,
			UPIIDs:             t.Intelligence.UPIIDs,
			BankAccounts:       t.Intelligence.BankAccounts,
			PhishingLinks:      t.Intelligence.PhishingLinks,
			PhoneNumbers:       t.Intelligence.PhoneNumbers,
			SuspiciousKeywords: t.Intelligence.SuspiciousKeywords,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_scams_detected": len(reports),
		"reports":              reports,
	})
}

func (s *Server) sessionReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	rep, ok, err := s.report.Build(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("build session report failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "failed to build report"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no turns recorded for session"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
