package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/cricket-schedules/internal/config"
	"github.com/pfrederiksen/cricket-schedules/internal/logger"
	"github.com/pfrederiksen/cricket-schedules/internal/match"
	"github.com/pfrederiksen/cricket-schedules/internal/scraper"
)

// SchedulesService provides cached schedules data
type SchedulesService interface {
	Raw(ctx context.Context) (string, error)
	Matches(ctx context.Context) ([]*match.Record, error)
}

// PageFetcher fetches other pages from the upstream host
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// Server wires the HTTP routes to the schedules service
type Server struct {
	schedules SchedulesService
	pages     PageFetcher
	templates *Templates
	linkBase  string
	log       *logger.Logger
	metrics   *logger.Metrics
}

// New creates a Server. pages may be nil, in which case the scorecard routes are not mounted.
// linkBase is the upstream page URL that relative match links resolve against; empty means
// the public schedules page.
func New(schedules SchedulesService, pages PageFetcher, linkBase string, log *logger.Logger, metrics *logger.Metrics) (*Server, error) {
	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}
	if linkBase == "" {
		linkBase = scraper.SchedulesURL
	}
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.NewMetrics()
	}

	return &Server{
		schedules: schedules,
		pages:     pages,
		templates: templates,
		linkBase:  linkBase,
		log:       log,
		metrics:   metrics,
	}, nil
}

// Handler returns the router with all routes and middleware mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedules", s.handleSchedules)
		r.Get("/schedules/raw", s.handleSchedulesRaw)

		if s.pages != nil {
			r.Get("/scorecard", s.handleScorecard)
			r.Get("/scorecard/raw", s.handleScorecardRaw)
		}
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", logger.Fields{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// requestLogger logs one line per request and records request metrics
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			s.metrics.IncrCounter(logger.MetricHTTPRequests)
			s.metrics.RecordTiming(logger.MetricHTTPRequest, elapsed)

			fields := logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": elapsed.Milliseconds(),
				"request_id":  chiMiddleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				s.metrics.IncrCounter(logger.MetricHTTPErrors)
				s.log.Warn("Request failed", fields)
				return
			}
			s.log.Info("Request handled", fields)
		}()

		next.ServeHTTP(ww, r)
	})
}
