// Command migrate manages the database schema from the command line.
//
// Exactly one action flag is required per invocation:
//
//	migrate -up              apply every pending migration
//	migrate -down            roll back every applied migration
//	migrate -steps N         move N versions (negative steps down)
//	migrate -version         print the current schema version
//	migrate -force V         pin the recorded version after a manual repair
//	migrate -drop            drop every object in the database
//
// Database settings come from the service configuration; -path overrides
// the migrations directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/citescope/scholar-search-service/internal/config"
	"github.com/citescope/scholar-search-service/internal/database"
	"github.com/citescope/scholar-search-service/internal/observability"
)

type cliFlags struct {
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	drop    bool
	path    string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (cliFlags, error) {
	var f cliFlags
	flag.BoolVar(&f.up, "up", false, "apply every pending migration")
	flag.BoolVar(&f.down, "down", false, "roll back every applied migration")
	flag.IntVar(&f.steps, "steps", 0, "move N schema versions (negative steps down)")
	flag.BoolVar(&f.version, "version", false, "print the current schema version")
	flag.IntVar(&f.force, "force", -1, "pin the recorded schema version after a manual repair")
	flag.BoolVar(&f.drop, "drop", false, "drop every object in the database (destructive)")
	flag.StringVar(&f.path, "path", "", "override the migrations directory")
	flag.Parse()

	actions := 0
	for _, set := range []bool{f.up, f.down, f.steps != 0, f.version, f.force >= 0, f.drop} {
		if set {
			actions++
		}
	}
	switch {
	case actions == 0:
		flag.Usage()
		return f, errors.New("one of -up, -down, -steps, -version, -force, -drop is required")
	case actions > 1:
		return f, errors.New("only one action may be given per invocation")
	}
	return f, nil
}

func run() error {
	flags, err := parseFlags()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}).With().Str("component", "migrate").Logger()

	migrationsDir := cfg.Database.MigrationPath
	if flags.path != "" {
		migrationsDir = flags.path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db, migrationsDir, logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close migrator")
		}
	}()

	switch {
	case flags.up:
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case flags.down:
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case flags.steps != 0:
		if err := migrator.Steps(flags.steps); err != nil {
			return fmt.Errorf("migrate steps: %w", err)
		}
	case flags.force >= 0:
		if err := migrator.Force(flags.force); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
	case flags.drop:
		if err := migrator.Drop(); err != nil {
			return fmt.Errorf("drop database objects: %w", err)
		}
		logger.Warn().Msg("all database objects dropped")
		return nil
	}

	logVersion(migrator, logger)
	return nil
}

// logVersion reports the schema version after an action. A fresh database
// with no recorded version is reported, not treated as a failure.
func logVersion(migrator *database.Migrator, logger zerolog.Logger) {
	v, dirty, err := migrator.Version()
	if err != nil {
		logger.Info().Err(err).Msg("no schema version recorded")
		return
	}
	logger.Info().Uint("version", v).Bool("dirty", dirty).Msg("current schema version")
}
