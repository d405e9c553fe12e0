// Package domain provides domain models and business logic for the Scholar Search Service.
package domain

import (
	"strings"
	"time"
)

// Article represents a scholarly article persisted in the articles table.
type Article struct {
	ID              int64
	Title           string
	Authors         string
	PublicationDate *time.Time
	Abstract        string
	Link            string
	Keywords        string
	CitedBy         int
	ResearcherID    *int64
	CitationID      string
	Year            *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasTitle reports whether the article carries a usable title.
// A title consisting only of whitespace does not count.
func (a *Article) HasTitle() bool {
	return strings.TrimSpace(a.Title) != ""
}

// Researcher represents an author profile persisted in the researchers table.
type Researcher struct {
	ID             int64
	ExternalID     string
	Name           string
	Affiliation    string
	Email          string
	HIndex         int
	I10Index       int
	TotalCitations int
	Interests      string
	ProfileURL     string
	CreatedAt      time.Time
}

// SearchRequest carries the parameters for a provider search call.
//
// String fields are included in the outgoing request only when non-blank
// after trimming. Pointer fields are included whenever set, even when the
// pointed-to value is zero or false; a nil pointer means "not specified".
type SearchRequest struct {
	Query            string `json:"query" validate:"omitempty,max=500"`
	Cites            string `json:"cites,omitempty"`
	ClusterID        string `json:"cluster_id,omitempty"`
	YearLow          *int   `json:"year_low,omitempty" validate:"omitempty,min=1900,max=2100"`
	YearHigh         *int   `json:"year_high,omitempty" validate:"omitempty,min=1900,max=2100"`
	SortByDate       *int   `json:"sort_by_date,omitempty" validate:"omitempty,min=0,max=2"`
	Language         string `json:"language,omitempty" validate:"omitempty,max=10"`
	LangRestrict     string `json:"lang_restrict,omitempty"`
	PageStart        *int   `json:"page_start,omitempty" validate:"omitempty,min=0"`
	PageSize         *int   `json:"page_size,omitempty" validate:"omitempty,min=1,max=20"`
	SearchType       string `json:"search_type,omitempty"`
	Safe             string `json:"safe,omitempty" validate:"omitempty,oneof=active off"`
	Filter           *int   `json:"filter,omitempty" validate:"omitempty,min=0,max=1"`
	IncludeCitations *int   `json:"include_citations,omitempty" validate:"omitempty,min=0,max=1"`
	ReviewArticles   *int   `json:"review_articles,omitempty" validate:"omitempty,min=0,max=1"`
	NoCache          *bool  `json:"no_cache,omitempty"`
	Async            *bool  `json:"async,omitempty"`
	Output           string `json:"output,omitempty" validate:"omitempty,oneof=json html"`
}
