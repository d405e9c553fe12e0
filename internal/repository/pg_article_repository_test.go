package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citescope/scholar-search-service/internal/domain"
)

// Helper to create a valid article for testing.
func newTestArticle() *domain.Article {
	pubDate := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	year := 2018
	return &domain.Article{
		Title:           "Deep learning for healthcare prediction",
		Authors:         "J Smith, A Jones",
		PublicationDate: &pubDate,
		Abstract:        "We present a model...",
		Link:            "https://example.com/paper",
		Keywords:        "deep, learning, healthcare, prediction",
		CitedBy:         1234,
		CitationID:      "9985340489667197134",
		Year:            &year,
	}
}

func TestNewPgArticleRepository(t *testing.T) {
	t.Run("creates repository with mock db", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestPgArticleRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts article and returns generated id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		article := newTestArticle()

		mock.ExpectQuery("INSERT INTO articles").
			WithArgs(
				article.Title, article.Authors, article.PublicationDate,
				article.Abstract, article.Link, article.Keywords,
				article.CitedBy, article.ResearcherID, article.CitationID,
				article.Year, pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

		id, err := repo.Insert(ctx, article)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, int64(7), article.ID)
		assert.False(t, article.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects nil article", func(t *testing.T) {
		repo := NewPgArticleRepository(nil)

		_, err := repo.Insert(ctx, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		repo := NewPgArticleRepository(nil)

		_, err := repo.Insert(ctx, &domain.Article{Title: "   "})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("maps unique violation to already exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		article := newTestArticle()

		pgErr := &pgconn.PgError{Code: "23505"}
		mock.ExpectQuery("INSERT INTO articles").
			WithArgs(
				article.Title, article.Authors, article.PublicationDate,
				article.Abstract, article.Link, article.Keywords,
				article.CitedBy, article.ResearcherID, article.CitationID,
				article.Year, pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnError(pgErr)

		_, err = repo.Insert(ctx, article)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("wraps other database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		article := newTestArticle()

		mock.ExpectQuery("INSERT INTO articles").
			WithArgs(
				article.Title, article.Authors, article.PublicationDate,
				article.Abstract, article.Link, article.Keywords,
				article.CitedBy, article.ResearcherID, article.CitationID,
				article.Year, pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnError(errors.New("connection lost"))

		_, err = repo.Insert(ctx, article)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert article")
	})
}

func TestPgArticleRepository_BulkInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts rows independently and returns ids in order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		for _, id := range []int64{1, 2} {
			mock.ExpectQuery("INSERT INTO articles").
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
		}

		ids, err := repo.BulkInsert(ctx, []*domain.Article{
			{Title: "Paper A"},
			{Title: "Paper B"},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids)
	})

	t.Run("stops at first failing row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectQuery("INSERT INTO articles").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

		ids, err := repo.BulkInsert(ctx, []*domain.Article{
			{Title: "Paper A"},
			{Title: "   "},
			{Title: "never reached"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, []int64{1}, ids)
	})
}

func TestPgArticleRepository_ExistsByTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("returns true for stored title", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("Known Paper").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsByTitle(ctx, "Known Paper")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("returns false for unknown title", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("Unknown Paper").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByTitle(ctx, "Unknown Paper")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPgArticleRepository_UpdateCitationsByTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites citation count", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectExec("UPDATE articles").
			WithArgs("Known Paper", 42).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.UpdateCitationsByTitle(ctx, "Known Paper", 42)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row matches", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectExec("UPDATE articles").
			WithArgs("Unknown Paper", 42).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.UpdateCitationsByTitle(ctx, "Unknown Paper", 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgArticleRepository_GetByTitle(t *testing.T) {
	ctx := context.Background()

	articleRows := func(article *domain.Article) *pgxmock.Rows {
		return pgxmock.NewRows([]string{
			"id", "title", "authors", "publication_date", "abstract", "link",
			"keywords", "cited_by", "researcher_id", "citation_id", "year",
			"created_at", "updated_at",
		}).AddRow(
			int64(1), article.Title, article.Authors, article.PublicationDate,
			article.Abstract, article.Link, article.Keywords, article.CitedBy,
			article.ResearcherID, article.CitationID, article.Year,
			time.Now().UTC(), time.Now().UTC(),
		)
	}

	t.Run("returns stored article", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		want := newTestArticle()

		mock.ExpectQuery("SELECT (.+) FROM articles WHERE title").
			WithArgs(want.Title).
			WillReturnRows(articleRows(want))

		got, err := repo.GetByTitle(ctx, want.Title)
		require.NoError(t, err)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.CitedBy, got.CitedBy)
		require.NotNil(t, got.Year)
		assert.Equal(t, 2018, *got.Year)
	})

	t.Run("returns not found for unknown title", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM articles WHERE title").
			WithArgs("Unknown Paper").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetByTitle(ctx, "Unknown Paper")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgArticleRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists articles with clamped pagination", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)

		rows := pgxmock.NewRows([]string{
			"id", "title", "authors", "publication_date", "abstract", "link",
			"keywords", "cited_by", "researcher_id", "citation_id", "year",
			"created_at", "updated_at",
		}).
			AddRow(int64(2), "Paper B", "", (*time.Time)(nil), "", "", "", 0, (*int64)(nil), "", (*int)(nil), time.Now().UTC(), time.Now().UTC()).
			AddRow(int64(1), "Paper A", "", (*time.Time)(nil), "", "", "", 5, (*int64)(nil), "", (*int)(nil), time.Now().UTC(), time.Now().UTC())

		// Zero limit falls back to the default
		mock.ExpectQuery("SELECT (.+) FROM articles").
			WithArgs(defaultListLimit, 0).
			WillReturnRows(rows)

		articles, err := repo.List(ctx, 0, -5)
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, "Paper B", articles[0].Title)
	})
}

func TestPgArticleRepository_Count(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgArticleRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
