package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citescope/scholar-search-service/internal/domain"
	"github.com/citescope/scholar-search-service/internal/reconcile"
	"github.com/citescope/scholar-search-service/internal/scholar"
)

// persistResponse is returned by every endpoint that runs the persistence
// pipeline. The summary partitions all processed records by outcome.
type persistResponse struct {
	Message string            `json:"message"`
	Summary reconcile.Summary `json:"summary"`
}

// searchAndSaveResponse couples the provider envelope with the persistence
// summary.
type searchAndSaveResponse struct {
	Message string                  `json:"message"`
	Summary reconcile.Summary       `json:"summary"`
	Results []scholar.OrganicResult `json:"results,omitempty"`
}

// databaseStatsResponse reports row counts and connection pool state.
type databaseStatsResponse struct {
	Articles    int64     `json:"articles"`
	Researchers int64     `json:"researchers"`
	Pool        *poolStat `json:"pool,omitempty"`
}

type poolStat struct {
	TotalConns    int32 `json:"total_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func poolStatFrom(stat *pgxpool.Stat) *poolStat {
	if stat == nil {
		return nil
	}
	return &poolStat{
		TotalConns:    stat.TotalConns(),
		AcquiredConns: stat.AcquiredConns(),
		IdleConns:     stat.IdleConns(),
		MaxConns:      stat.MaxConns(),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// writeDomainError maps domain errors to HTTP status codes and writes a JSON
// error response. Internal error details are not leaked to clients.
//
// A provider that returned nothing usable is a 204, not a failure. A missing
// credential is a deployment problem and surfaces as a 500 so it is never
// mistaken for a bad request.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, domain.ErrNoContent):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrMissingCredential):
		writeError(w, http.StatusInternalServerError, "provider credential not configured")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		writeError(w, http.StatusBadGateway, "provider returned an unreadable response")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate limited")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		var apiErr *domain.ExternalAPIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusServiceUnavailable, "search provider unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
