package scholar

import "encoding/json"

// Text is a string field that tolerates JSON numbers in provider payloads.
// Scraped responses are inconsistent about whether counts and years arrive
// as numbers or as display strings such as "Cited by 1,234".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if string(data) == "null" {
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

// String returns the raw text value.
func (t Text) String() string {
	return string(t)
}

// SearchResponse is the provider search envelope. All consumable fields are
// optional; unknown fields are ignored during decoding.
type SearchResponse struct {
	SearchMetadata    *SearchMetadata    `json:"search_metadata,omitempty"`
	SearchParameters  map[string]any     `json:"search_parameters,omitempty"`
	SearchInformation *SearchInformation `json:"search_information,omitempty"`
	OrganicResults    []OrganicResult    `json:"organic_results,omitempty"`
	RelatedSearches   []RelatedSearch    `json:"related_searches,omitempty"`
	Pagination        *Pagination        `json:"pagination,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// SearchMetadata describes the provider's handling of a search.
type SearchMetadata struct {
	ID             string  `json:"id,omitempty"`
	Status         string  `json:"status,omitempty"`
	JSONEndpoint   string  `json:"json_endpoint,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	ProcessedAt    string  `json:"processed_at,omitempty"`
	TotalTimeTaken float64 `json:"total_time_taken,omitempty"`
}

// SearchInformation summarizes result counts for a search.
type SearchInformation struct {
	OrganicResultsState string  `json:"organic_results_state,omitempty"`
	QueryDisplayed      string  `json:"query_displayed,omitempty"`
	TotalResults        int64   `json:"total_results,omitempty"`
	TimeTakenDisplayed  float64 `json:"time_taken_displayed,omitempty"`
}

// OrganicResult is a single scholarly result.
type OrganicResult struct {
	Position        int              `json:"position,omitempty"`
	Title           string           `json:"title,omitempty"`
	ResultID        string           `json:"result_id,omitempty"`
	Type            string           `json:"type,omitempty"`
	Link            string           `json:"link,omitempty"`
	Snippet         string           `json:"snippet,omitempty"`
	PublicationInfo *PublicationInfo `json:"publication_info,omitempty"`
	Resources       []Resource       `json:"resources,omitempty"`
	InlineLinks     *InlineLinks     `json:"inline_links,omitempty"`
}

// PublicationInfo carries the free-form publication summary and, when the
// provider resolves them, structured author entries.
type PublicationInfo struct {
	Summary string         `json:"summary,omitempty"`
	Authors []ResultAuthor `json:"authors,omitempty"`
}

// ResultAuthor is a structured author reference within a result.
type ResultAuthor struct {
	Name        string `json:"name,omitempty"`
	Link        string `json:"link,omitempty"`
	SerpAPILink string `json:"serpapi_scholar_link,omitempty"`
	AuthorID    string `json:"author_id,omitempty"`
}

// Resource is a downloadable artifact attached to a result.
type Resource struct {
	Title      string `json:"title,omitempty"`
	FileFormat string `json:"file_format,omitempty"`
	Link       string `json:"link,omitempty"`
}

// InlineLinks carries citation and version cross-references for a result.
type InlineLinks struct {
	SerpAPICiteLink  string    `json:"serpapi_cite_link,omitempty"`
	CitedBy          *CitedBy  `json:"cited_by,omitempty"`
	Versions         *Versions `json:"versions,omitempty"`
	RelatedPagesLink string    `json:"related_pages_link,omitempty"`
	CachedPageLink   string    `json:"cached_page_link,omitempty"`
}

// CitedBy describes the citation cross-reference of a result.
type CitedBy struct {
	Total              *Text  `json:"total,omitempty"`
	Link               string `json:"link,omitempty"`
	CitesID            string `json:"cites_id,omitempty"`
	SerpAPIScholarLink string `json:"serpapi_scholar_link,omitempty"`
}

// Versions describes the grouped-versions cross-reference of a result.
type Versions struct {
	Total              *Text  `json:"total,omitempty"`
	Link               string `json:"link,omitempty"`
	ClusterID          string `json:"cluster_id,omitempty"`
	SerpAPIScholarLink string `json:"serpapi_scholar_link,omitempty"`
}

// RelatedSearch is a provider-suggested follow-up query.
type RelatedSearch struct {
	Query string `json:"query,omitempty"`
	Link  string `json:"link,omitempty"`
}

// Pagination carries result paging links.
type Pagination struct {
	Current    int               `json:"current,omitempty"`
	Next       string            `json:"next,omitempty"`
	OtherPages map[string]string `json:"other_pages,omitempty"`
}

// AuthorArticlesPayload is the author-profile article listing shape. It is
// accepted on the save endpoint as an alternative to the search envelope.
type AuthorArticlesPayload struct {
	Articles []AuthorArticle `json:"articles"`
}

// AuthorArticle is a single article from an author profile listing.
type AuthorArticle struct {
	Title       string         `json:"title,omitempty"`
	Link        string         `json:"link,omitempty"`
	CitationID  string         `json:"citation_id,omitempty"`
	Authors     string         `json:"authors,omitempty"`
	Publication string         `json:"publication,omitempty"`
	Year        *Text          `json:"year,omitempty"`
	CitedBy     *AuthorCitedBy `json:"cited_by,omitempty"`
}

// AuthorCitedBy is the citation counter attached to an author article.
type AuthorCitedBy struct {
	Value   *Text  `json:"value,omitempty"`
	Link    string `json:"link,omitempty"`
	CitesID string `json:"cites_id,omitempty"`
}
