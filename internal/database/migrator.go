package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Migrator applies the SQL migrations under the configured directory to the
// connected database. Versions are tracked in the schema_migrations table.
type Migrator struct {
	migrate *migrate.Migrate
	sqlDB   *sql.DB // database/sql view of the pgx pool, closed with the migrator
	logger  zerolog.Logger
}

// NewMigrator builds a Migrator over an open database connection and a
// directory of migration files. The directory must exist.
func NewMigrator(db *DB, migrationsDir string, logger zerolog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("migrator needs an open database")
	}
	if db.pool == nil {
		return nil, errors.New("migrator needs an initialized connection pool")
	}
	if migrationsDir == "" {
		return nil, errors.New("migrations directory is required")
	}
	if _, err := os.Stat(migrationsDir); err != nil {
		return nil, fmt.Errorf("migrations directory %s: %w", migrationsDir, err)
	}

	// golang-migrate speaks database/sql, so borrow a stdlib view of the pool.
	sqlDB := stdlib.OpenDBFromPool(db.pool)

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("building migrator: %w", err)
	}

	return &Migrator{migrate: m, sqlDB: sqlDB, logger: logger}, nil
}

// Up applies every pending migration. An already current schema is not an
// error.
func (m *Migrator) Up() error {
	m.logger.Info().Msg("applying pending migrations")

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("schema already up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	m.logger.Info().Msg("migrations applied")
	return nil
}

// Down rolls back every applied migration.
func (m *Migrator) Down() error {
	m.logger.Warn().Msg("rolling back all migrations")

	if err := m.migrate.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("nothing to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migrations: %w", err)
	}

	m.logger.Info().Msg("migrations rolled back")
	return nil
}

// Steps moves the schema n versions: positive steps up, negative steps down.
// Stepping past either end of the migration sequence is not an error.
func (m *Migrator) Steps(n int) error {
	m.logger.Info().Int("steps", n).Msg("stepping schema version")

	if err := m.migrate.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("schema already up to date")
			return nil
		}
		// golang-migrate reports stepping past the last file as ErrNotExist.
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Info().Msg("no further migrations in that direction")
			return nil
		}
		return fmt.Errorf("stepping migrations: %w", err)
	}

	return nil
}

// Version reports the current schema version and whether a failed migration
// left it dirty.
func (m *Migrator) Version() (uint, bool, error) {
	return m.migrate.Version()
}

// Force pins the recorded schema version without running any migration.
// Use it to clear a dirty state after a failed migration was repaired by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn().Int("version", version).Msg("forcing schema version")
	return m.migrate.Force(version)
}

// Drop removes every object in the connected database, including the
// schema_migrations table. Meant for disposable databases; exposed through
// the -drop flag of cmd/migrate.
func (m *Migrator) Drop() error {
	m.logger.Warn().Msg("dropping all database objects")
	return m.migrate.Drop()
}

// Close releases the migration source, the driver, and the borrowed
// database/sql handle.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()

	var sqlErr error
	if m.sqlDB != nil {
		sqlErr = m.sqlDB.Close()
	}

	if err := errors.Join(sourceErr, dbErr, sqlErr); err != nil {
		return fmt.Errorf("closing migrator: %w", err)
	}
	return nil
}
