package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/citescope/scholar-search-service/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

const articleColumns = `id, title, authors, publication_date, abstract, link,
	keywords, cited_by, researcher_id, citation_id, year, created_at, updated_at`

// Insert stores a new article and returns its generated ID.
func (r *PgArticleRepository) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	if article == nil {
		return 0, domain.NewValidationError("article", "article cannot be nil")
	}
	if strings.TrimSpace(article.Title) == "" {
		return 0, domain.NewValidationError("title", "title is required")
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO articles (
			title, authors, publication_date, abstract, link,
			keywords, cited_by, researcher_id, citation_id, year,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		article.Title,
		article.Authors,
		article.PublicationDate,
		article.Abstract,
		article.Link,
		article.Keywords,
		article.CitedBy,
		article.ResearcherID,
		article.CitationID,
		article.Year,
		now,
		now,
	).Scan(&article.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, domain.NewAlreadyExistsError("article", article.Title)
		}
		return 0, fmt.Errorf("failed to insert article: %w", err)
	}

	article.CreatedAt = now
	article.UpdatedAt = now
	return article.ID, nil
}

// BulkInsert stores multiple articles and returns the generated IDs in input
// order. Rows are validated and inserted independently; the first failure
// stops the run and the IDs inserted so far are returned with the error.
func (r *PgArticleRepository) BulkInsert(ctx context.Context, articles []*domain.Article) ([]int64, error) {
	ids := make([]int64, 0, len(articles))
	for i, article := range articles {
		id, err := r.Insert(ctx, article)
		if err != nil {
			return ids, fmt.Errorf("bulk insert failed at row %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ExistsByTitle reports whether an article with this exact title is stored.
func (r *PgArticleRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM articles WHERE title = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, title).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return exists, nil
}

// UpdateCitationsByTitle overwrites the stored citation count for a title.
func (r *PgArticleRepository) UpdateCitationsByTitle(ctx context.Context, title string, citedBy int) error {
	query := `
		UPDATE articles
		SET cited_by = $2, updated_at = NOW()
		WHERE title = $1`

	tag, err := r.db.Exec(ctx, query, title, citedBy)
	if err != nil {
		return fmt.Errorf("failed to update citation count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("article", title)
	}
	return nil
}

// GetByTitle retrieves one article by exact title.
func (r *PgArticleRepository) GetByTitle(ctx context.Context, title string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE title = $1`

	article, err := scanArticle(r.db.QueryRow(ctx, query, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", title)
		}
		return nil, fmt.Errorf("failed to get article by title: %w", err)
	}
	return article, nil
}

// List retrieves stored articles ordered by creation time, newest first.
func (r *PgArticleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	applyPaginationDefaults(&limit, &offset)

	query := `SELECT ` + articleColumns + `
		FROM articles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

// Count returns the total number of stored articles.
func (r *PgArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// scanArticle reads one article row from a pgx.Row or pgx.Rows.
func scanArticle(row pgx.Row) (*domain.Article, error) {
	var article domain.Article
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Authors,
		&article.PublicationDate,
		&article.Abstract,
		&article.Link,
		&article.Keywords,
		&article.CitedBy,
		&article.ResearcherID,
		&article.CitationID,
		&article.Year,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Filter pagination defaults and limits.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// applyPaginationDefaults clamps limit to [1, maxListLimit] and ensures
// offset >= 0.
func applyPaginationDefaults(limit, offset *int) {
	if *limit <= 0 {
		*limit = defaultListLimit
	}
	if *limit > maxListLimit {
		*limit = maxListLimit
	}
	if *offset < 0 {
		*offset = 0
	}
}
