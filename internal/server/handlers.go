package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pfrederiksen/cricket-schedules/internal/logger"
	"github.com/pfrederiksen/cricket-schedules/internal/scraper"
)

// ErrorResponse is the JSON body of a failed API request
type ErrorResponse struct {
	Error string `json:"error"`
}

// IndexPageData holds data for the listing page template
type IndexPageData struct {
	Title    string
	Endpoint string
	LinkBase string
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status  string                 `json:"status"`
	Metrics map[string]interface{} `json:"metrics"`
}

// handleIndex renders the listing page. It never touches the upstream or the cache.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		Title:    "Cricket Schedules",
		Endpoint: "/api/schedules",
		LinkBase: s.linkBase,
	}

	if err := s.templates.Render(w, "index.html", data); err != nil {
		s.log.Error("Failed to render index page", nil, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleSchedules returns the match records as a JSON array
// GET /api/schedules
func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	records, err := s.schedules.Matches(r.Context())
	if err != nil {
		s.writeJSONError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, records)
}

// handleSchedulesRaw returns the upstream page HTML as-is
// GET /api/schedules/raw
func (s *Server) handleSchedulesRaw(w http.ResponseWriter, r *http.Request) {
	html, err := s.schedules.Raw(r.Context())
	if err != nil {
		s.writeTextError(w, err)
		return
	}

	writeHTML(w, html)
}

// handleScorecard parses a scorecard page on the upstream host
// GET /api/scorecard?url={page}
func (s *Server) handleScorecard(w http.ResponseWriter, r *http.Request) {
	html, ok := s.fetchScorecard(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, scraper.ParseScorecard(html))
}

// handleScorecardRaw returns a scorecard page's HTML
// GET /api/scorecard/raw?url={page}
func (s *Server) handleScorecardRaw(w http.ResponseWriter, r *http.Request) {
	html, ok := s.fetchScorecard(w, r)
	if !ok {
		return
	}

	writeHTML(w, html)
}

// handleHealth reports liveness with a metrics snapshot
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Metrics: s.metrics.GetSnapshot(),
	})
}

// fetchScorecard validates the url parameter and fetches the page, writing the error
// response itself when it returns false
func (s *Server) fetchScorecard(w http.ResponseWriter, r *http.Request) (string, bool) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		s.writeJSONStatus(w, http.StatusBadRequest, "missing url")
		return "", false
	}

	html, err := s.pages.FetchPage(r.Context(), pageURL)
	if err != nil {
		if errors.Is(err, scraper.ErrForeignURL) {
			s.writeJSONStatus(w, http.StatusBadRequest, err.Error())
			return "", false
		}
		s.writeJSONError(w, err)
		return "", false
	}

	return html, true
}

// statusFor maps an error to its HTTP status and a short client-facing message
func (s *Server) statusFor(err error) (int, string) {
	if scraper.IsUpstreamError(err) {
		return http.StatusBadGateway, err.Error()
	}

	s.log.Error("Unexpected handler error", nil, err)
	return http.StatusInternalServerError, "internal server error"
}

func (s *Server) writeJSONError(w http.ResponseWriter, err error) {
	status, msg := s.statusFor(err)
	s.writeJSONStatus(w, status, msg)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeTextError(w http.ResponseWriter, err error) {
	status, msg := s.statusFor(err)
	http.Error(w, msg, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent; log and move on
		s.log.Error("Failed to encode response", logger.Fields{"status": status}, err)
	}
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
