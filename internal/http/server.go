// Package http exposes the read-side dashboard API: the amortized
// ledger and the current cycle summary.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	gocache "github.com/patrickmn/go-cache"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/services"
)

// ReportProvider is the slice of the report service the API serves.
type ReportProvider interface {
	Ledger(ctx context.Context, start, end time.Time) ([]services.LedgerEntry, error)
	Summary(ctx context.Context, today time.Time) (services.CycleSummary, error)
}

// Pinger checks that the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const summaryCacheKey = "summary"

// Server wraps the HTTP listener and its routes. The cycle summary is
// cached briefly because the dashboard polls it.
type Server struct {
	http.Server

	reports  ReportProvider
	pinger   Pinger
	schedule core.Schedule
	cache    *gocache.Cache
	now      func() time.Time
	logger   *log.Logger
}

func NewServer(addr string, reports ReportProvider, pinger Pinger, schedule core.Schedule, cacheTTL time.Duration, logger *log.Logger) *Server {
	r := chi.NewRouter()
	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		reports:  reports,
		pinger:   pinger,
		schedule: schedule,
		cache:    gocache.New(cacheTTL, 2*cacheTTL),
		now:      time.Now,
		logger:   logger,
	}

	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ledger", s.handleLedger)
		r.Get("/summary", s.handleSummary)
	})
	return s
}

// InvalidateSummary drops the cached cycle summary. Called when an
// expense event arrives.
func (s *Server) InvalidateSummary() {
	s.cache.Delete(summaryCacheKey)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLedger serves the amortized entries for a date window. The
// window defaults to the current billing cycle when no bounds are
// given.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	current, _ := s.schedule.CurrentAndPrevious(s.now())
	start, end := current.Start, current.End

	var err error
	if v := r.URL.Query().Get("start"); v != "" {
		if start, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
			return
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if end, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end date precedes start date")
		return
	}

	entries, err := s.reports.Ledger(r.Context(), start, end)
	if err != nil {
		s.logger.Error("ledger query failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []services.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start":   start.Format("2006-01-02"),
		"end":     end.Format("2006-01-02"),
		"entries": entries,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if cached, found := s.cache.Get(summaryCacheKey); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.reports.Summary(r.Context(), s.now())
	if err != nil {
		s.logger.Error("summary query failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.cache.SetDefault(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
