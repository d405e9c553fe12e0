// Package extract normalizes loosely structured provider results into
// records ready for reconciliation. Extraction is per-field best-effort:
// a field that cannot be derived is left unset, and only a missing title
// makes a record invalid.
package extract

import (
	"strings"
	"time"

	"github.com/citescope/scholar-search-service/internal/domain"
)

// Record is a normalized article candidate produced from one provider
// result. Pointer fields distinguish "not extracted" from a zero value:
// a nil CitedBy means no citation information was present at all, while
// a non-nil zero means a citation field existed but held no digits.
type Record struct {
	Title           string
	Authors         string
	PublicationDate *time.Time
	Abstract        string
	Link            string
	Keywords        string
	CitedBy         *int
	Year            *int
	CitationID      string

	// Warnings collects non-fatal extraction problems, such as a link
	// that is not well-formed. The record is still usable.
	Warnings []Warning
}

// Warning is a non-fatal extraction problem tied to one field.
type Warning struct {
	Field   string
	Message string
}

// Valid reports whether the record carries enough identity to persist.
// Title is the identity key, so a blank title is the only fatal condition.
func (r *Record) Valid() bool {
	return strings.TrimSpace(r.Title) != ""
}

// Article converts the record into a persistable article. A nil citation
// count becomes the storage default of zero.
func (r *Record) Article() domain.Article {
	article := domain.Article{
		Title:           r.Title,
		Authors:         r.Authors,
		PublicationDate: r.PublicationDate,
		Abstract:        r.Abstract,
		Link:            r.Link,
		Keywords:        r.Keywords,
		CitationID:      r.CitationID,
		Year:            r.Year,
	}
	if r.CitedBy != nil {
		article.CitedBy = *r.CitedBy
	}
	return article
}

func (r *Record) warn(field, msg string) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Message: msg})
}
