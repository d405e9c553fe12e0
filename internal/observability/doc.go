// Package observability provides logging and metrics support for the scholar
// search service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for searches, articles, and researchers
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("query", query).Msg("search started")
//
// Add search context to logger:
//
//	logger = observability.WithSearchContext(logger, query, mode)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("scholar_search")
//
// Record metrics:
//
//	metrics.RecordSearchStarted("organic")
//	metrics.RecordArticleInserted()
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - query: search query text
//   - mode: search mode (organic, author, cited_by, cluster)
//   - title: article title
//   - researcher_external_id: provider-assigned author identifier
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
