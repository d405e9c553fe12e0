package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/citescope/scholar-search-service/internal/domain"
	"github.com/citescope/scholar-search-service/internal/extract"
	"github.com/citescope/scholar-search-service/internal/observability"
)

const (
	// MaxBatchResearchers caps how many researchers one batch call accepts.
	MaxBatchResearchers = 2

	// MaxArticlesPerResearcher caps how many articles each researcher in a
	// batch call may carry.
	MaxArticlesPerResearcher = 3
)

// ArticleStore is the article storage capability the processor depends on.
type ArticleStore interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	UpdateCitationsByTitle(ctx context.Context, title string, citedBy int) error
}

// ResearcherStore is the researcher storage capability the processor depends on.
type ResearcherStore interface {
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	IDByExternalID(ctx context.Context, externalID string) (int64, error)
	Insert(ctx context.Context, researcher *domain.Researcher) (int64, error)
}

// ResearcherArticles pairs one researcher with the article records
// attributed to them in a batch call.
type ResearcherArticles struct {
	Researcher domain.Researcher
	Articles   []extract.Record
}

// Summary reports how a set of records was reconciled. Counts partition
// the records: every record lands in exactly one of them.
type Summary struct {
	Inserted           int      `json:"inserted"`
	Updated            int      `json:"updated"`
	Skipped            int      `json:"skipped"`
	Rejected           int      `json:"rejected"`
	Failed             int      `json:"failed"`
	ResearchersCreated int      `json:"researchers_created,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
	Errors             []string `json:"errors,omitempty"`
}

// Processed returns the total number of records accounted for.
func (s *Summary) Processed() int {
	return s.Inserted + s.Updated + s.Skipped + s.Rejected + s.Failed
}

// Message renders a human-readable outcome line for response payloads.
func (s *Summary) Message() string {
	parts := []string{fmt.Sprintf("%d articles saved", s.Inserted)}
	if s.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d citation counts updated", s.Updated))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicates skipped", s.Skipped))
	}
	if s.Rejected > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid records rejected", s.Rejected))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	return "operation completed: " + strings.Join(parts, ", ")
}

func (s *Summary) merge(other Summary) {
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Rejected += other.Rejected
	s.Failed += other.Failed
	s.ResearchersCreated += other.ResearchersCreated
	s.Warnings = append(s.Warnings, other.Warnings...)
	s.Errors = append(s.Errors, other.Errors...)
}

// Processor turns extracted records into storage operations, one record at
// a time. A failure on one record never aborts its siblings.
type Processor struct {
	articles    ArticleStore
	researchers ResearcherStore
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

// NewProcessor creates a new Processor with the given dependencies.
func NewProcessor(articles ArticleStore, researchers ResearcherStore, metrics *observability.Metrics, logger zerolog.Logger) *Processor {
	return &Processor{
		articles:    articles,
		researchers: researchers,
		metrics:     metrics,
		logger:      logger,
	}
}

// ProcessArticles reconciles and persists a set of records. When
// researcherID is non-nil, inserted articles reference that researcher.
//
// Records are processed independently: a rejection or storage failure is
// counted and reported in the summary while the remaining records continue.
// A duplicate-key violation from a concurrent insert of the same title is
// reported as a failed item, not an aborted request.
func (p *Processor) ProcessArticles(ctx context.Context, records []extract.Record, researcherID *int64) Summary {
	var summary Summary

	for i := range records {
		record := &records[i]
		logger := observability.WithArticleContext(p.logger, record.Title)

		for _, warning := range record.Warnings {
			p.metrics.RecordExtractionWarning(warning.Field)
			summary.Warnings = append(summary.Warnings, warning.Message)
			logger.Warn().Str("field", warning.Field).Msg(warning.Message)
		}

		decision, err := Decide(ctx, p.articles, record)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("checking %q: %v", record.Title, err))
			p.metrics.RecordArticleFailed()
			logger.Error().Err(err).Msg("existence check failed")
			continue
		}

		switch decision {
		case DecisionReject:
			summary.Rejected++
			summary.Warnings = append(summary.Warnings, "skipped record with blank title")
			p.metrics.RecordArticleRejected()

		case DecisionInsert:
			article := record.Article()
			article.ResearcherID = researcherID
			if _, err := p.articles.Insert(ctx, &article); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("inserting %q: %v", record.Title, err))
				p.metrics.RecordArticleFailed()
				logger.Error().Err(err).Msg("insert failed")
				continue
			}
			summary.Inserted++
			p.metrics.RecordArticleInserted()
			logger.Debug().Msg("article inserted")

		case DecisionUpdateCitations:
			if err := p.articles.UpdateCitationsByTitle(ctx, record.Title, *record.CitedBy); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("updating %q: %v", record.Title, err))
				p.metrics.RecordArticleFailed()
				logger.Error().Err(err).Msg("citation update failed")
				continue
			}
			summary.Updated++
			p.metrics.RecordArticleUpdated()
			logger.Debug().Int("cited_by", *record.CitedBy).Msg("citation count refreshed")

		case DecisionSkipDuplicate:
			summary.Skipped++
			p.metrics.RecordArticleSkipped()
			logger.Debug().Msg("duplicate skipped")
		}
	}

	return summary
}

// EnsureResearcher resolves a researcher to a stored row, creating one
// when needed.
//
// Identity is the external identifier: a researcher with a known external
// ID is reused, and one without any external ID is always inserted as new
// because display names are not unique.
func (p *Processor) EnsureResearcher(ctx context.Context, researcher *domain.Researcher) (int64, bool, error) {
	externalID := strings.TrimSpace(researcher.ExternalID)
	if externalID != "" {
		exists, err := p.researchers.ExistsByExternalID(ctx, externalID)
		if err != nil {
			return 0, false, fmt.Errorf("checking researcher %q: %w", externalID, err)
		}
		if exists {
			id, err := p.researchers.IDByExternalID(ctx, externalID)
			if err != nil {
				return 0, false, fmt.Errorf("resolving researcher %q: %w", externalID, err)
			}
			return id, false, nil
		}
	}

	id, err := p.researchers.Insert(ctx, researcher)
	if err != nil {
		return 0, false, fmt.Errorf("inserting researcher %q: %w", researcher.Name, err)
	}
	p.metrics.RecordResearcherCreated()
	return id, true, nil
}

// ProcessBatch reconciles a multi-researcher batch.
//
// Batch caps are validated up front and a violation rejects the whole
// batch before anything is persisted. Within an accepted batch, failures
// on one researcher's articles do not abort the other researchers.
func (p *Processor) ProcessBatch(ctx context.Context, batch []ResearcherArticles) (Summary, error) {
	if err := p.validateBatch(batch); err != nil {
		p.metrics.RecordBatchRejected()
		return Summary{}, err
	}

	var summary Summary
	for i := range batch {
		item := &batch[i]
		logger := observability.WithResearcherContext(p.logger, item.Researcher.ExternalID, item.Researcher.Name)

		id, created, err := p.EnsureResearcher(ctx, &item.Researcher)
		if err != nil {
			summary.Failed += len(item.Articles)
			summary.Errors = append(summary.Errors, err.Error())
			for range item.Articles {
				p.metrics.RecordArticleFailed()
			}
			logger.Error().Err(err).Msg("researcher reconciliation failed")
			continue
		}
		if created {
			summary.ResearchersCreated++
			logger.Info().Int64("researcher_id", id).Msg("researcher created")
		}

		summary.merge(p.ProcessArticles(ctx, item.Articles, &id))
	}

	return summary, nil
}

func (p *Processor) validateBatch(batch []ResearcherArticles) error {
	if len(batch) > MaxBatchResearchers {
		return domain.NewBatchLimitError("researchers", MaxBatchResearchers, len(batch))
	}
	for i := range batch {
		if len(batch[i].Articles) > MaxArticlesPerResearcher {
			return domain.NewBatchLimitError("articles per researcher", MaxArticlesPerResearcher, len(batch[i].Articles))
		}
	}
	return nil
}
