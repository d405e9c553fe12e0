package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/citescope/scholar-search-service/internal/domain"
)

const (
	// DefaultBaseURL is the default provider search endpoint.
	DefaultBaseURL = "https://serpapi.com/search.json"

	// DefaultEngine is the default provider engine.
	DefaultEngine = "google_scholar"

	// DefaultRateLimit is the default rate limit (5 requests per second).
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum results per search request.
	DefaultMaxResults = 20

	// sourceName is the human-readable name for the provider.
	sourceName = "Google Scholar"

	// maxBodyBytes caps how much of a response body is decoded.
	maxBodyBytes = 10 << 20
)

// Config holds configuration for the provider client.
type Config struct {
	// BaseURL is the provider search endpoint.
	BaseURL string

	// APIKey is the provider credential. Requests without it fail with
	// domain.ErrMissingCredential before anything is sent.
	APIKey string

	// Engine selects the provider search engine.
	Engine string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxResults is the default page size when a request does not set one.
	MaxResults int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client queries the academic search provider.
type Client struct {
	config     Config
	httpClient *HTTPClient
}

// New creates a new provider client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := NewHTTPClient(HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new provider client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries the provider with the given request.
//
// A non-200 status or an empty response body is reported as
// domain.ErrNoContent; the caller treats it as a search with no results
// rather than a hard failure.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*SearchResponse, error) {
	searchURL, err := c.buildSearchURL(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "executing request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %w", resp.StatusCode, domain.ErrNoContent)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&searchResp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("provider returned empty body: %w", domain.ErrNoContent)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &searchResp, nil
}

// SearchAuthor queries the provider for articles attributed to the named
// author using the provider's author query syntax.
func (c *Client) SearchAuthor(ctx context.Context, name string) (*SearchResponse, error) {
	return c.Search(ctx, domain.SearchRequest{Query: AuthorQuery(name)})
}

// SearchCitedBy queries the provider for articles citing the given cites ID.
func (c *Client) SearchCitedBy(ctx context.Context, citesID string) (*SearchResponse, error) {
	return c.Search(ctx, domain.SearchRequest{Cites: citesID})
}

// SearchCluster queries the provider for all versions grouped under the
// given cluster ID.
func (c *Client) SearchCluster(ctx context.Context, clusterID string) (*SearchResponse, error) {
	return c.Search(ctx, domain.SearchRequest{ClusterID: clusterID})
}

// buildSearchURL constructs the provider search URL for a request.
func (c *Client) buildSearchURL(req domain.SearchRequest) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	if req.PageSize == nil && c.config.MaxResults > 0 {
		num := c.config.MaxResults
		req.PageSize = &num
	}

	values, err := buildValues(c.config.Engine, c.config.APIKey, req)
	if err != nil {
		return "", err
	}

	baseURL.RawQuery = values.Encode()
	return baseURL.String(), nil
}
