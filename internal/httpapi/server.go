// Package httpapi exposes the search pipeline over a thin JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/util"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeInvalidRequestBody = "invalid_request_body"
	codeQueryRequired      = "query_required"
	codeUnknownSite        = "unknown_site"
)

// SearchFunc runs a search restricted to the given site identifiers (nil
// means the default set). It returns an error only for invalid input such
// as an unknown site; search-level failures are reported inside the result.
type SearchFunc func(ctx context.Context, query model.SearchQuery, siteIDs []string) (*model.Result, error)

type Server struct {
	search SearchFunc
	logger *log.Logger
}

func New(search SearchFunc, logger *log.Logger) *Server {
	return &Server{search: search, logger: logger}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/api/v1/search", s.searchHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type searchRequest struct {
	Query     string   `json:"query"`
	Location  string   `json:"location"`
	Sites     []string `json:"sites"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	MaxPrice  float64  `json:"maxPrice"`
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "use POST")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeQueryRequired, "query is required")
		return
	}

	query := model.SearchQuery{
		Query:    strings.TrimSpace(req.Query),
		Location: strings.TrimSpace(req.Location),
		MaxPrice: req.MaxPrice,
	}
	if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		query.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
		query.EndDate = &t
	}

	start := time.Now()
	s.logger.Printf("api search start: query=%q location=%q sites=%v", query.Query, query.Location, req.Sites)

	result, err := s.search(r.Context(), query, req.Sites)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeUnknownSite, util.RedactSecrets(err.Error()))
		return
	}

	s.logger.Printf("api search done: query=%q seats=%d events=%d errors=%d duration=%s",
		query.Query, len(result.RankedSeats), len(result.Events), len(result.Errors),
		time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, result.ToExport())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
