package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/citescope/scholar-search-service/internal/domain"
	"github.com/citescope/scholar-search-service/internal/scholar"
)

// Request body limit for all JSON endpoints.
const maxRequestBodySize = 1 << 20 // 1 MB

// simpleSearch handles GET /search.
// Query parameters: query, page_start, page_size.
func (s *Server) simpleSearch(w http.ResponseWriter, r *http.Request) {
	req := domain.SearchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("query")),
	}

	if v, ok := queryInt(w, r, "page_start"); ok {
		req.PageStart = v
	} else {
		return
	}
	if v, ok := queryInt(w, r, "page_size"); ok {
		req.PageSize = v
	} else {
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	s.runSearch(w, r, req)
}

// search handles POST /search with a full SearchRequest body.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	s.runSearch(w, r, req)
}

// searchAuthor handles GET /authors/search?author_name=.
func (s *Server) searchAuthor(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("author_name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "author_name is required")
		return
	}

	s.runSearch(w, r, domain.SearchRequest{Query: scholar.AuthorQuery(name)})
}

// searchCitedBy handles GET /cited-by/{citesID}.
func (s *Server) searchCitedBy(w http.ResponseWriter, r *http.Request) {
	citesID := chi.URLParam(r, "citesID")
	if citesID == "" {
		writeError(w, http.StatusBadRequest, "cites_id is required")
		return
	}

	s.runSearch(w, r, domain.SearchRequest{Cites: citesID})
}

// searchVersions handles GET /versions/{clusterID}.
func (s *Server) searchVersions(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	if clusterID == "" {
		writeError(w, http.StatusBadRequest, "cluster_id is required")
		return
	}

	s.runSearch(w, r, domain.SearchRequest{ClusterID: clusterID})
}

// runSearch executes a provider search and writes the raw envelope.
func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req domain.SearchRequest) {
	resp, ok := s.doSearch(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// doSearch wraps the provider call with metrics and error mapping. On error
// the response has already been written and ok is false.
func (s *Server) doSearch(w http.ResponseWriter, r *http.Request, req domain.SearchRequest) (*scholar.SearchResponse, bool) {
	mode := scholar.Mode(req)
	s.metrics.RecordSearchStarted(mode)
	start := time.Now()

	resp, err := s.client.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			s.metrics.RecordSearchEmpty(mode)
		} else {
			s.metrics.RecordSearchFailed(mode, time.Since(start).Seconds())
			s.logger.Error().Err(err).Str("mode", mode).Msg("provider search failed")
		}
		writeDomainError(w, err)
		return nil, false
	}

	s.metrics.RecordSearchCompleted(mode, len(resp.OrganicResults), time.Since(start).Seconds())
	return resp, true
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields a nil pointer; a malformed one writes a 400.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return nil, false
	}
	return &parsed, true
}

// validationMessage renders the first field error from validator in a
// client-friendly form.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return "invalid value for " + fe.Field()
	}
	return "invalid request"
}
