package scholar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/citescope/scholar-search-service/internal/domain"
)

// Search modes reported in logs and metrics.
const (
	ModeOrganic = "organic"
	ModeAuthor  = "author"
	ModeCitedBy = "cited_by"
	ModeCluster = "cluster"
)

// AuthorQuery formats an author name into the provider's author search
// syntax. The name is trimmed before quoting.
func AuthorQuery(name string) string {
	return fmt.Sprintf("author:%q", strings.TrimSpace(name))
}

// Mode classifies a search request for logging and metrics.
func Mode(req domain.SearchRequest) string {
	switch {
	case strings.TrimSpace(req.Cites) != "":
		return ModeCitedBy
	case strings.TrimSpace(req.ClusterID) != "":
		return ModeCluster
	case strings.HasPrefix(req.Query, `author:"`):
		return ModeAuthor
	default:
		return ModeOrganic
	}
}

// buildValues assembles the outgoing query parameters for a search request.
//
// The engine, query, and credential are always present. Optional string
// parameters are included only when non-blank after trimming; pointer
// parameters are included whenever set, even at their zero value. A blank
// credential aborts the build before anything is sent upstream.
func buildValues(engine, apiKey string, req domain.SearchRequest) (url.Values, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrMissingCredential
	}

	values := url.Values{}
	values.Set("engine", engine)
	values.Set("q", req.Query)
	values.Set("api_key", apiKey)

	setString(values, "cites", req.Cites)
	setString(values, "cluster", req.ClusterID)
	setInt(values, "as_ylo", req.YearLow)
	setInt(values, "as_yhi", req.YearHigh)
	setInt(values, "scisbd", req.SortByDate)
	setString(values, "hl", req.Language)
	setString(values, "lr", req.LangRestrict)
	setInt(values, "start", req.PageStart)
	setInt(values, "num", req.PageSize)
	setString(values, "as_sdt", req.SearchType)
	setString(values, "safe", req.Safe)
	setInt(values, "filter", req.Filter)
	setInt(values, "as_vis", req.IncludeCitations)
	setInt(values, "as_rr", req.ReviewArticles)
	setBool(values, "no_cache", req.NoCache)
	setBool(values, "async", req.Async)
	setString(values, "output", req.Output)

	return values, nil
}

func setString(values url.Values, key, v string) {
	if strings.TrimSpace(v) != "" {
		values.Set(key, v)
	}
}

func setInt(values url.Values, key string, v *int) {
	if v != nil {
		values.Set(key, strconv.Itoa(*v))
	}
}

func setBool(values url.Values, key string, v *bool) {
	if v != nil {
		values.Set(key, strconv.FormatBool(*v))
	}
}
