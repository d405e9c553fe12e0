// Package reconcile decides how a normalized article record relates to
// what is already stored: new articles are inserted, re-sighted titles
// either refresh their citation count or are skipped, and records without
// a usable identity are rejected.
package reconcile

import (
	"context"
	"strings"

	"github.com/citescope/scholar-search-service/internal/extract"
)

// Decision is the single outcome chosen for one record.
type Decision int

const (
	// DecisionReject means the record failed validation and is not stored.
	DecisionReject Decision = iota

	// DecisionInsert means the title is new and the record is stored whole.
	DecisionInsert

	// DecisionUpdateCitations means the title exists and the stored
	// citation count is overwritten with the newly extracted one.
	DecisionUpdateCitations

	// DecisionSkipDuplicate means the title exists and no citation count
	// was extracted, so there is nothing to refresh.
	DecisionSkipDuplicate
)

// String returns the decision name for logs and summaries.
func (d Decision) String() string {
	switch d {
	case DecisionInsert:
		return "insert"
	case DecisionUpdateCitations:
		return "update_citations"
	case DecisionSkipDuplicate:
		return "skip_duplicate"
	case DecisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// TitleChecker is the storage capability needed to make a decision.
type TitleChecker interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// Decide classifies one record against current storage state.
//
// Titles are matched exactly and case-sensitively. An existing title with
// an extracted citation count always produces an update, even when the new
// count is lower than the stored one.
func Decide(ctx context.Context, store TitleChecker, record *extract.Record) (Decision, error) {
	if strings.TrimSpace(record.Title) == "" {
		return DecisionReject, nil
	}

	exists, err := store.ExistsByTitle(ctx, record.Title)
	if err != nil {
		return DecisionReject, err
	}
	if !exists {
		return DecisionInsert, nil
	}
	if record.CitedBy != nil {
		return DecisionUpdateCitations, nil
	}
	return DecisionSkipDuplicate, nil
}
