package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/citescope/scholar-search-service/internal/scholar"
)

const (
	// maxKeywords caps how many keywords are derived from a title.
	maxKeywords = 5

	// minKeywordLength is the exclusive lower bound on keyword length.
	minKeywordLength = 3

	// minAuthorsLength and maxAuthorsLength bound the accepted length of
	// an authors string derived from a publication summary.
	minAuthorsLength = 4
	maxAuthorsLength = 199
)

var (
	yearPattern     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	initialsPattern = regexp.MustCompile(`^[A-Z]{1,3}\s+`)
	nonAlphaPattern = regexp.MustCompile(`[^a-zA-Z\s]`)
	nonDigitPattern = regexp.MustCompile(`[^0-9]`)
)

// stopWords are common short words excluded from derived keywords.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "had": {}, "day": {}, "get": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "man": {}, "new": {}, "now": {}, "old": {},
	"see": {}, "two": {}, "way": {}, "who": {}, "boy": {}, "did": {},
	"its": {}, "let": {}, "put": {}, "say": {}, "she": {}, "too": {},
	"use": {},
}

// FromOrganic normalizes one organic search result into a record.
func FromOrganic(result scholar.OrganicResult) Record {
	record := Record{
		Title:    result.Title,
		Abstract: result.Snippet,
	}

	var summary string
	if result.PublicationInfo != nil {
		summary = result.PublicationInfo.Summary
		record.Authors = joinAuthorNames(result.PublicationInfo.Authors)
	}
	if record.Authors == "" {
		record.Authors = AuthorsFromSummary(summary)
	}

	record.Year = YearFrom(summary)
	record.PublicationDate = dateFromYear(record.Year)
	record.Keywords = KeywordsFromTitle(result.Title)
	record.CitedBy = citationsFromInlineLinks(result.InlineLinks)
	if result.InlineLinks != nil && result.InlineLinks.CitedBy != nil {
		record.CitationID = result.InlineLinks.CitedBy.CitesID
	}

	setLink(&record, result.Link)
	return record
}

// FromAuthorArticle normalizes one author-profile article into a record.
// The dedicated year field takes precedence over any year embedded in the
// publication summary.
func FromAuthorArticle(article scholar.AuthorArticle) Record {
	record := Record{
		Title:      article.Title,
		Authors:    article.Authors,
		CitationID: article.CitationID,
	}

	if article.Year != nil {
		if year, err := strconv.Atoi(strings.TrimSpace(article.Year.String())); err == nil {
			record.Year = &year
		}
	}
	if record.Year == nil {
		record.Year = YearFrom(article.Publication)
	}
	record.PublicationDate = dateFromYear(record.Year)

	if article.CitedBy != nil && article.CitedBy.Value != nil {
		count := ParseCitationCount(article.CitedBy.Value.String())
		record.CitedBy = &count
	}

	record.Keywords = KeywordsFromTitle(article.Title)
	setLink(&record, article.Link)
	return record
}

// AuthorsFromSummary derives an authors string from a free-form
// publication summary such as "J Smith, A Jones - Nature, 2018". It takes
// the part before the first " - " separator, strips a leading short
// all-caps initials token, and accepts the remainder only when its length
// is plausible for a list of names.
func AuthorsFromSummary(summary string) string {
	if summary == "" {
		return ""
	}

	authorsPart, _, _ := strings.Cut(summary, " - ")
	authorsPart = initialsPattern.ReplaceAllString(authorsPart, "")
	if len(authorsPart) < minAuthorsLength || len(authorsPart) > maxAuthorsLength {
		return ""
	}
	return authorsPart
}

// YearFrom extracts the first plausible publication year found anywhere
// in the given text. Years in the future are not accepted.
func YearFrom(text string) *int {
	match := yearPattern.FindString(text)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil || year > time.Now().Year() {
		return nil
	}
	return &year
}

// ParseCitationCount strips every non-digit character from a citation
// count text such as "Cited by 1,234" and parses the rest. Text with no
// digits parses to zero.
func ParseCitationCount(text string) int {
	digits := nonDigitPattern.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return count
}

// KeywordsFromTitle derives up to five lowercase keywords from a title,
// keeping alphabetic tokens longer than three characters that are not
// stop words, in order of first appearance.
func KeywordsFromTitle(title string) string {
	cleaned := nonAlphaPattern.ReplaceAllString(strings.ToLower(title), "")

	keywords := make([]string, 0, maxKeywords)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= minKeywordLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return strings.Join(keywords, ", ")
}

// joinAuthorNames flattens structured author entries into a single
// comma-separated display string.
func joinAuthorNames(authors []scholar.ResultAuthor) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if name := strings.TrimSpace(author.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// citationsFromInlineLinks reads the nested cited-by total. A missing
// block yields nil; a present but non-numeric total yields zero.
func citationsFromInlineLinks(links *scholar.InlineLinks) *int {
	if links == nil || links.CitedBy == nil || links.CitedBy.Total == nil {
		return nil
	}
	count := ParseCitationCount(links.CitedBy.Total.String())
	return &count
}

func dateFromYear(year *int) *time.Time {
	if year == nil {
		return nil
	}
	date := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &date
}

// setLink stores the link as given. A link not starting with a known
// scheme is flagged but never corrected or dropped.
func setLink(record *Record, link string) {
	record.Link = link
	if link == "" {
		return
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		record.warn("link", fmt.Sprintf("link not well-formed: %q", link))
	}
}
