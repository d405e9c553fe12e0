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
var _ ResearcherRepository = (*PgResearcherRepository)(nil)

// PgResearcherRepository is a PostgreSQL implementation of ResearcherRepository.
type PgResearcherRepository struct {
	db DBTX
}

// NewPgResearcherRepository creates a new PostgreSQL researcher repository.
func NewPgResearcherRepository(db DBTX) *PgResearcherRepository {
	return &PgResearcherRepository{db: db}
}

const researcherColumns = `id, external_id, name, affiliation, email,
	h_index, i10_index, total_citations, interests, profile_url, created_at`

// Insert stores a new researcher and returns the generated ID.
func (r *PgResearcherRepository) Insert(ctx context.Context, researcher *domain.Researcher) (int64, error) {
	if researcher == nil {
		return 0, domain.NewValidationError("researcher", "researcher cannot be nil")
	}
	if strings.TrimSpace(researcher.Name) == "" {
		return 0, domain.NewValidationError("name", "name is required")
	}

	now := time.Now().UTC()

	// A blank identifier is stored as NULL so it stays out of the partial
	// unique index and each identifier-less researcher inserts as a new row.
	var externalID *string
	if id := strings.TrimSpace(researcher.ExternalID); id != "" {
		externalID = &id
	}

	query := `
		INSERT INTO researchers (
			external_id, name, affiliation, email, h_index,
			i10_index, total_citations, interests, profile_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		externalID,
		researcher.Name,
		researcher.Affiliation,
		researcher.Email,
		researcher.HIndex,
		researcher.I10Index,
		researcher.TotalCitations,
		researcher.Interests,
		researcher.ProfileURL,
		now,
	).Scan(&researcher.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, domain.NewAlreadyExistsError("researcher", researcher.ExternalID)
		}
		return 0, fmt.Errorf("failed to insert researcher: %w", err)
	}

	researcher.CreatedAt = now
	return researcher.ID, nil
}

// ExistsByExternalID reports whether a researcher with this external
// identifier is stored.
func (r *PgResearcherRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM researchers WHERE external_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, externalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check researcher existence: %w", err)
	}
	return exists, nil
}

// IDByExternalID resolves an external identifier to the stored row ID.
func (r *PgResearcherRepository) IDByExternalID(ctx context.Context, externalID string) (int64, error) {
	query := `SELECT id FROM researchers WHERE external_id = $1`

	var id int64
	err := r.db.QueryRow(ctx, query, externalID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFoundError("researcher", externalID)
		}
		return 0, fmt.Errorf("failed to resolve researcher ID: %w", err)
	}
	return id, nil
}

// GetByExternalID retrieves a researcher profile by external identifier.
func (r *PgResearcherRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Researcher, error) {
	query := `SELECT ` + researcherColumns + ` FROM researchers WHERE external_id = $1`

	var researcher domain.Researcher
	err := r.db.QueryRow(ctx, query, externalID).Scan(
		&researcher.ID,
		&researcher.ExternalID,
		&researcher.Name,
		&researcher.Affiliation,
		&researcher.Email,
		&researcher.HIndex,
		&researcher.I10Index,
		&researcher.TotalCitations,
		&researcher.Interests,
		&researcher.ProfileURL,
		&researcher.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("researcher", externalID)
		}
		return nil, fmt.Errorf("failed to get researcher: %w", err)
	}
	return &researcher, nil
}

// Count returns the total number of stored researchers.
func (r *PgResearcherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM researchers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count researchers: %w", err)
	}
	return count, nil
}
