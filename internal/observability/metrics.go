package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the scholar search service.
// Metrics are organized by subsystem: provider searches, article persistence,
// and researcher processing. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// SearchesStarted counts provider searches initiated, labeled by search mode.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful provider searches, labeled by search mode.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed provider searches, labeled by search mode.
	SearchesFailed *prometheus.CounterVec

	// SearchesEmpty counts provider searches that returned no content, labeled by search mode.
	SearchesEmpty *prometheus.CounterVec

	// SearchDuration observes provider search duration in seconds, labeled by search mode.
	SearchDuration *prometheus.HistogramVec

	// ResultsPerSearch observes the distribution of organic results returned per search.
	ResultsPerSearch prometheus.Histogram

	// ArticlesInserted counts new articles written to the store.
	ArticlesInserted prometheus.Counter

	// ArticlesUpdated counts articles whose citation count was refreshed.
	ArticlesUpdated prometheus.Counter

	// ArticlesSkipped counts duplicate articles left untouched.
	ArticlesSkipped prometheus.Counter

	// ArticlesRejected counts records rejected before reaching the store.
	ArticlesRejected prometheus.Counter

	// ArticlesFailed counts records that hit a storage error.
	ArticlesFailed prometheus.Counter

	// ResearchersCreated counts new researcher profiles written to the store.
	ResearchersCreated prometheus.Counter

	// BatchesRejected counts researcher batches rejected for exceeding caps.
	BatchesRejected prometheus.Counter

	// ExtractionWarnings counts non-fatal field extraction warnings, labeled by field.
	ExtractionWarnings *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of provider searches started by mode",
		}, []string{"mode"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of provider searches completed by mode",
		}, []string{"mode"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of provider searches that failed by mode",
		}, []string{"mode"}),
		SearchesEmpty: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_empty_total",
			Help:      "Total number of provider searches that returned no content by mode",
		}, []string{"mode"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of provider searches in seconds by mode",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"mode"}),
		ResultsPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_search",
			Help:      "Number of organic results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),

		// Articles
		ArticlesInserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_inserted_total",
			Help:      "Total number of new articles inserted",
		}),
		ArticlesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_updated_total",
			Help:      "Total number of articles with refreshed citation counts",
		}),
		ArticlesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Total number of duplicate articles skipped",
		}),
		ArticlesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_rejected_total",
			Help:      "Total number of records rejected before storage",
		}),
		ArticlesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_failed_total",
			Help:      "Total number of records that failed during storage",
		}),

		// Researchers
		ResearchersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "researchers_created_total",
			Help:      "Total number of researcher profiles created",
		}),
		BatchesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_rejected_total",
			Help:      "Total number of researcher batches rejected for exceeding caps",
		}),

		// Extraction
		ExtractionWarnings: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_warnings_total",
			Help:      "Total number of non-fatal field extraction warnings by field",
		}, []string{"field"}),
	}
}

// RecordSearchStarted records that a provider search has started.
func (m *Metrics) RecordSearchStarted(mode string) {
	m.SearchesStarted.WithLabelValues(mode).Inc()
}

// RecordSearchCompleted records that a provider search has completed.
func (m *Metrics) RecordSearchCompleted(mode string, resultCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(mode).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(durationSeconds)
	m.ResultsPerSearch.Observe(float64(resultCount))
}

// RecordSearchFailed records that a provider search has failed.
func (m *Metrics) RecordSearchFailed(mode string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(mode).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordSearchEmpty records that a provider search returned no content.
func (m *Metrics) RecordSearchEmpty(mode string) {
	m.SearchesEmpty.WithLabelValues(mode).Inc()
}

// RecordArticleInserted records a new article written to the store.
func (m *Metrics) RecordArticleInserted() {
	m.ArticlesInserted.Inc()
}

// RecordArticleUpdated records a refreshed citation count.
func (m *Metrics) RecordArticleUpdated() {
	m.ArticlesUpdated.Inc()
}

// RecordArticleSkipped records a duplicate article left untouched.
func (m *Metrics) RecordArticleSkipped() {
	m.ArticlesSkipped.Inc()
}

// RecordArticleRejected records a record rejected before storage.
func (m *Metrics) RecordArticleRejected() {
	m.ArticlesRejected.Inc()
}

// RecordArticleFailed records a record that hit a storage error.
func (m *Metrics) RecordArticleFailed() {
	m.ArticlesFailed.Inc()
}

// RecordResearcherCreated records a new researcher profile.
func (m *Metrics) RecordResearcherCreated() {
	m.ResearchersCreated.Inc()
}

// RecordBatchRejected records a researcher batch rejected for exceeding caps.
func (m *Metrics) RecordBatchRejected() {
	m.BatchesRejected.Inc()
}

// RecordExtractionWarning records a non-fatal field extraction warning.
func (m *Metrics) RecordExtractionWarning(field string) {
	m.ExtractionWarnings.WithLabelValues(field).Inc()
}
