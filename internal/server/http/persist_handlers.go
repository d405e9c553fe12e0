package httpserver

import (
	"net/http"

	"github.com/citescope/scholar-search-service/internal/domain"
	"github.com/citescope/scholar-search-service/internal/extract"
	"github.com/citescope/scholar-search-service/internal/reconcile"
	"github.com/citescope/scholar-search-service/internal/scholar"
)

// savePayload accepts either a raw provider envelope (organic_results) or an
// author-articles listing (articles). Both shapes can appear because callers
// forward provider responses verbatim.
type savePayload struct {
	OrganicResults []scholar.OrganicResult `json:"organic_results"`
	Articles       []scholar.AuthorArticle `json:"articles"`
}

// researcherBatchRequest is the JSON body for POST /researchers/batch.
type researcherBatchRequest struct {
	Researchers []researcherPayload `json:"researchers"`
}

type researcherPayload struct {
	ExternalID     string                  `json:"external_id"`
	Name           string                  `json:"name"`
	Affiliation    string                  `json:"affiliation,omitempty"`
	Email          string                  `json:"email,omitempty"`
	HIndex         int                     `json:"h_index,omitempty"`
	I10Index       int                     `json:"i10_index,omitempty"`
	TotalCitations int                     `json:"total_citations,omitempty"`
	Interests      string                  `json:"interests,omitempty"`
	ProfileURL     string                  `json:"profile_url,omitempty"`
	Articles       []scholar.AuthorArticle `json:"articles"`
}

// searchAndSave handles POST /search-and-save. It runs a provider search and
// feeds every organic result through the persistence pipeline.
func (s *Server) searchAndSave(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, ok := s.doSearch(w, r, req)
	if !ok {
		return
	}

	records := recordsFromOrganic(resp.OrganicResults)
	summary := s.processor.ProcessArticles(r.Context(), records, nil)

	writeJSON(w, http.StatusOK, searchAndSaveResponse{
		Message: summary.Message(),
		Summary: summary,
		Results: resp.OrganicResults,
	})
}

// saveArticles handles POST /save-articles with a raw provider payload.
func (s *Server) saveArticles(w http.ResponseWriter, r *http.Request) {
	var payload savePayload
	if !s.decodeBody(w, r, &payload) {
		return
	}

	records := recordsFromOrganic(payload.OrganicResults)
	for _, article := range payload.Articles {
		records = append(records, extract.FromAuthorArticle(article))
	}

	summary := s.processor.ProcessArticles(r.Context(), records, nil)

	writeJSON(w, http.StatusOK, persistResponse{
		Message: summary.Message(),
		Summary: summary,
	})
}

// saveResearcherBatch handles POST /researchers/batch. A batch exceeding the
// researcher or per-researcher article caps is rejected whole; nothing is
// persisted.
func (s *Server) saveResearcherBatch(w http.ResponseWriter, r *http.Request) {
	var req researcherBatchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Researchers) == 0 {
		writeError(w, http.StatusBadRequest, "researchers is required")
		return
	}
	for _, rp := range req.Researchers {
		if rp.Name == "" {
			writeError(w, http.StatusBadRequest, "researcher name is required")
			return
		}
	}

	batch := make([]reconcile.ResearcherArticles, len(req.Researchers))
	for i, rp := range req.Researchers {
		records := make([]extract.Record, len(rp.Articles))
		for j, article := range rp.Articles {
			records[j] = extract.FromAuthorArticle(article)
		}
		batch[i] = reconcile.ResearcherArticles{
			Researcher: domain.Researcher{
				ExternalID:     rp.ExternalID,
				Name:           rp.Name,
				Affiliation:    rp.Affiliation,
				Email:          rp.Email,
				HIndex:         rp.HIndex,
				I10Index:       rp.I10Index,
				TotalCitations: rp.TotalCitations,
				Interests:      rp.Interests,
				ProfileURL:     rp.ProfileURL,
			},
			Articles: records,
		}
	}

	summary, err := s.processor.ProcessBatch(r.Context(), batch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, persistResponse{
		Message: summary.Message(),
		Summary: summary,
	})
}

// initializeDatabase handles POST /database/initialize.
func (s *Server) initializeDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.schemaRepo.EnsureSchema(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("schema bootstrap failed")
		writeError(w, http.StatusInternalServerError, "database initialization failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "database initialized"})
}

// databaseStats handles GET /database/stats.
func (s *Server) databaseStats(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articleRepo.Count(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	researchers, err := s.researcherRepo.Count(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, databaseStatsResponse{
		Articles:    articles,
		Researchers: researchers,
		Pool:        poolStatFrom(s.db.Stats()),
	})
}

// recordsFromOrganic extracts normalized records from organic results.
func recordsFromOrganic(results []scholar.OrganicResult) []extract.Record {
	records := make([]extract.Record, len(results))
	for i, result := range results {
		records[i] = extract.FromOrganic(result)
	}
	return records
}
