// Package repository provides data access interfaces and implementations
// for the Scholar Search Service.
//
// # Overview
//
// This package defines repository interfaces and their PostgreSQL
// implementations following the repository pattern to abstract data
// persistence from the reconciliation logic.
//
// # Repository Interfaces
//
//   - ArticleRepository: persists articles and refreshes citation counts
//   - ResearcherRepository: persists researcher profiles keyed by external ID
//   - SchemaRepository: idempotent bootstrap of the relational schema
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use by multiple
// goroutines. The underlying pgxpool handles connection pooling and
// synchronization. Concurrent inserts of the same title are not serialized
// here; the unique index on title is the backstop and surfaces as
// domain.ErrAlreadyExists.
//
// # Error Handling
//
// All methods return domain-specific errors from the domain package.
// Database errors are wrapped with context using fmt.Errorf with %w.
// Common errors include:
//
//   - domain.ErrNotFound: resource does not exist
//   - domain.ErrAlreadyExists: unique constraint violation
//   - domain.ErrInvalidInput: invalid parameters provided
//
// # Transactions
//
// The DBTX interface is satisfied by both the pool and a pgx.Tx, so a
// repository can run against either. Reconciliation deliberately persists
// records independently rather than inside one transaction; a failure on
// one record is counted and reported while its siblings continue.
package repository

import (
	"context"

	"github.com/citescope/scholar-search-service/internal/database"
	"github.com/citescope/scholar-search-service/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction
// contexts. Repository constructors accept DBTX so the same implementation
// works against the pool, a transaction, or a mock in tests.
type DBTX = database.DBTX

// ArticleRepository handles article persistence. Title is the identity
// key for de-duplication; all operations that reconcile records resolve
// against it.
type ArticleRepository interface {
	// Insert stores a new article and returns its generated ID.
	// Returns domain.ErrInvalidInput if the title is blank and
	// domain.ErrAlreadyExists if the title is already stored.
	Insert(ctx context.Context, article *domain.Article) (int64, error)

	// BulkInsert stores multiple articles and returns the generated IDs in
	// input order. Rows are validated independently; the first failure stops
	// the run and returns the IDs inserted so far with the error.
	BulkInsert(ctx context.Context, articles []*domain.Article) ([]int64, error)

	// ExistsByTitle reports whether an article with this exact title is stored.
	// Matching is case-sensitive.
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// UpdateCitationsByTitle overwrites the stored citation count for the
	// given title. The new value wins unconditionally, including downward
	// revisions. Returns domain.ErrNotFound if no such title is stored.
	UpdateCitationsByTitle(ctx context.Context, title string, citedBy int) error

	// GetByTitle retrieves one article by exact title.
	// Returns domain.ErrNotFound if no matching article exists.
	GetByTitle(ctx context.Context, title string) (*domain.Article, error)

	// List retrieves stored articles ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Article, error)

	// Count returns the total number of stored articles.
	Count(ctx context.Context) (int64, error)
}

// ResearcherRepository handles researcher profile persistence. The
// external identifier is the identity key; profiles without one cannot be
// de-duplicated and are always stored as new rows.
type ResearcherRepository interface {
	// Insert stores a new researcher and returns the generated ID.
	// Returns domain.ErrAlreadyExists if the external ID is already stored.
	// A blank external ID is stored as NULL and never conflicts, so every
	// identifier-less researcher becomes a new row.
	Insert(ctx context.Context, researcher *domain.Researcher) (int64, error)

	// ExistsByExternalID reports whether a researcher with this external
	// identifier is stored.
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// IDByExternalID resolves an external identifier to the stored row ID.
	// Returns domain.ErrNotFound if no such researcher exists.
	IDByExternalID(ctx context.Context, externalID string) (int64, error)

	// GetByExternalID retrieves a researcher profile by external identifier.
	// Returns domain.ErrNotFound if no such researcher exists.
	GetByExternalID(ctx context.Context, externalID string) (*domain.Researcher, error)

	// Count returns the total number of stored researchers.
	Count(ctx context.Context) (int64, error)
}

// SchemaRepository bootstraps the relational schema.
type SchemaRepository interface {
	// EnsureSchema creates the researchers and articles tables when they do
	// not exist yet. It is safe to invoke repeatedly.
	EnsureSchema(ctx context.Context) error
}
