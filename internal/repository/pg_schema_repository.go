package repository

import (
	"context"
	"fmt"
)

// Compile-time interface verification.
var _ SchemaRepository = (*PgSchemaRepository)(nil)

// PgSchemaRepository bootstraps the PostgreSQL schema. It exists alongside
// the migration tooling so the database-initialize endpoint can create the
// tables on demand without shelling out to the migrate CLI.
type PgSchemaRepository struct {
	db DBTX
}

// NewPgSchemaRepository creates a new PostgreSQL schema repository.
func NewPgSchemaRepository(db DBTX) *PgSchemaRepository {
	return &PgSchemaRepository{db: db}
}

// Schema statements are idempotent so EnsureSchema can run on every call.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS researchers (
		id BIGSERIAL PRIMARY KEY,
		external_id VARCHAR(100),
		name VARCHAR(255) NOT NULL,
		affiliation VARCHAR(500),
		email VARCHAR(255),
		h_index INT DEFAULT 0,
		i10_index INT DEFAULT 0,
		total_citations INT DEFAULT 0,
		interests TEXT,
		profile_url VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(500) NOT NULL,
		authors TEXT,
		publication_date DATE,
		abstract TEXT,
		link VARCHAR(1000),
		keywords TEXT,
		cited_by INT NOT NULL DEFAULT 0,
		researcher_id BIGINT REFERENCES researchers(id),
		citation_id VARCHAR(100),
		year INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_researchers_external_id
		ON researchers (external_id)
		WHERE external_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_title ON articles(title)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_researcher_id ON articles(researcher_id)`,
}

// EnsureSchema creates the researchers and articles tables when missing.
func (r *PgSchemaRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
