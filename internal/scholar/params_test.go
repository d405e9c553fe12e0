package scholar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citescope/scholar-search-service/internal/domain"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestAuthorQuery(t *testing.T) {
	assert.Equal(t, `author:"Jane Smith"`, AuthorQuery("Jane Smith"))
	assert.Equal(t, `author:"Jane Smith"`, AuthorQuery("  Jane Smith  "))
	assert.Equal(t, `author:""`, AuthorQuery("   "))
}

func TestMode(t *testing.T) {
	testCases := []struct {
		name string
		req  domain.SearchRequest
		want string
	}{
		{"plain query", domain.SearchRequest{Query: "machine learning"}, ModeOrganic},
		{"author query", domain.SearchRequest{Query: `author:"Jane Smith"`}, ModeAuthor},
		{"cites takes precedence", domain.SearchRequest{Query: "x", Cites: "12345"}, ModeCitedBy},
		{"cluster", domain.SearchRequest{ClusterID: "67890"}, ModeCluster},
		{"blank cites ignored", domain.SearchRequest{Query: "x", Cites: "  "}, ModeOrganic},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Mode(tc.req))
		})
	}
}

func TestBuildValues(t *testing.T) {
	t.Run("always sets engine, query, and credential", func(t *testing.T) {
		values, err := buildValues("google_scholar", "key-123", domain.SearchRequest{Query: "deep learning"})
		require.NoError(t, err)

		assert.Equal(t, "google_scholar", values.Get("engine"))
		assert.Equal(t, "deep learning", values.Get("q"))
		assert.Equal(t, "key-123", values.Get("api_key"))
	})

	t.Run("rejects blank credential", func(t *testing.T) {
		_, err := buildValues("google_scholar", "   ", domain.SearchRequest{Query: "x"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
	})

	t.Run("omits blank string parameters", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{
			Query:    "x",
			Cites:    "  ",
			Language: "",
			Safe:     "\t",
		})
		require.NoError(t, err)

		assert.False(t, values.Has("cites"))
		assert.False(t, values.Has("hl"))
		assert.False(t, values.Has("safe"))
	})

	t.Run("includes non-blank string parameters", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{
			Query:        "x",
			Cites:        "1275980731835430123",
			ClusterID:    "1275980731835430999",
			Language:     "en",
			LangRestrict: "lang_en|lang_fr",
			SearchType:   "4",
			Safe:         "active",
			Output:       "json",
		})
		require.NoError(t, err)

		assert.Equal(t, "1275980731835430123", values.Get("cites"))
		assert.Equal(t, "1275980731835430999", values.Get("cluster"))
		assert.Equal(t, "en", values.Get("hl"))
		assert.Equal(t, "lang_en|lang_fr", values.Get("lr"))
		assert.Equal(t, "4", values.Get("as_sdt"))
		assert.Equal(t, "active", values.Get("safe"))
		assert.Equal(t, "json", values.Get("output"))
	})

	t.Run("omits unset pointer parameters", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{Query: "x"})
		require.NoError(t, err)

		for _, key := range []string{"as_ylo", "as_yhi", "scisbd", "start", "num", "filter", "as_vis", "as_rr", "no_cache", "async"} {
			assert.False(t, values.Has(key), "unset %s should be omitted", key)
		}
	})

	t.Run("includes pointer parameters at zero values", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{
			Query:      "x",
			SortByDate: intPtr(0),
			PageStart:  intPtr(0),
			Filter:     intPtr(0),
			NoCache:    boolPtr(false),
		})
		require.NoError(t, err)

		assert.Equal(t, "0", values.Get("scisbd"))
		assert.Equal(t, "0", values.Get("start"))
		assert.Equal(t, "0", values.Get("filter"))
		assert.Equal(t, "false", values.Get("no_cache"))
	})

	t.Run("includes set pointer parameters", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{
			Query:            "x",
			YearLow:          intPtr(2015),
			YearHigh:         intPtr(2023),
			PageStart:        intPtr(20),
			PageSize:         intPtr(10),
			IncludeCitations: intPtr(1),
			ReviewArticles:   intPtr(1),
			NoCache:          boolPtr(true),
			Async:            boolPtr(true),
		})
		require.NoError(t, err)

		assert.Equal(t, "2015", values.Get("as_ylo"))
		assert.Equal(t, "2023", values.Get("as_yhi"))
		assert.Equal(t, "20", values.Get("start"))
		assert.Equal(t, "10", values.Get("num"))
		assert.Equal(t, "1", values.Get("as_vis"))
		assert.Equal(t, "1", values.Get("as_rr"))
		assert.Equal(t, "true", values.Get("no_cache"))
		assert.Equal(t, "true", values.Get("async"))
	})

	t.Run("sends empty query verbatim", func(t *testing.T) {
		values, err := buildValues("google_scholar", "k", domain.SearchRequest{Cites: "123"})
		require.NoError(t, err)

		assert.True(t, values.Has("q"))
		assert.Equal(t, "", values.Get("q"))
	})
}
