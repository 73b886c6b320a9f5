// filepath: internal/repository/migrate.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"filedrop/internal/config"
	"filedrop/internal/db/migrations"
	"filedrop/internal/logging"

	"github.com/pressly/goose/v3"
)

// MigrationDiagnosis is the outcome of comparing the store's applied
// migration history against the expected lineage. The set is closed:
// callers must handle every variant explicitly.
type MigrationDiagnosis int

const (
	// DiagnosisUpToDate means the applied history equals the lineage.
	DiagnosisUpToDate MigrationDiagnosis = iota
	// DiagnosisBehind means the applied history is a proper prefix of
	// the lineage; pending migrations can be applied in order. A fresh
	// database with no version table is behind.
	DiagnosisBehind
	// DiagnosisDrifted means the applied history matches no prefix of
	// the lineage. This is never resolved automatically.
	DiagnosisDrifted
)

func (d MigrationDiagnosis) String() string {
	switch d {
	case DiagnosisUpToDate:
		return "up-to-date"
	case DiagnosisBehind:
		return "behind"
	case DiagnosisDrifted:
		return "drifted"
	}
	return fmt.Sprintf("MigrationDiagnosis(%d)", int(d))
}

// ErrSchemaDrift is returned when the applied migration history does
// not match any prefix of the expected lineage.
var ErrSchemaDrift = errors.New("migration history does not match the expected lineage")

// UnreachableError marks a connection-level failure. It names the
// configured DSN so the operator knows which target was dialed.
type UnreachableError struct {
	DSN string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("database unreachable at %q: %v", e.DSN, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// classifyConnError wraps connection-level failures in an
// UnreachableError; everything else passes through unchanged.
func classifyConnError(err error, dsn string) error {
	if err == nil {
		return nil
	}
	var ue *UnreachableError
	if errors.As(err, &ue) {
		return err
	}
	var opErr *net.OpError
	msg := err.Error()
	if errors.As(err, &opErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "unable to open database file") {
		return &UnreachableError{DSN: dsn, Err: err}
	}
	return err
}

// EnsureDatabase creates the target database if it does not exist.
// For sqlite this means the parent directory of the database file; for
// postgres a CREATE DATABASE via the maintenance database, which
// requires creation privilege for the configured credentials.
func EnsureDatabase(cfg *config.Config) error {
	switch cfg.Database.Driver {
	case "sqlite":
		dir := filepath.Dir(cfg.Database.DSN)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return &UnreachableError{DSN: cfg.Database.DSN, Err: err}
			}
		}
		return nil
	case "postgres":
		return ensurePostgresDatabase(cfg)
	}
	return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
}

func ensurePostgresDatabase(cfg *config.Config) error {
	u, err := url.Parse(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("invalid postgres dsn: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("postgres dsn has no database name: %s", cfg.Database.DSN)
	}

	// Connect to the maintenance database to be able to create the
	// target one.
	admin := *u
	admin.Path = "/postgres"
	db, err := sql.Open("postgres", admin.String())
	if err != nil {
		return classifyConnError(err, cfg.Database.DSN)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return classifyConnError(err, cfg.Database.DSN)
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return classifyConnError(err, cfg.Database.DSN)
	}
	if exists {
		return nil
	}

	logging.Migrations().Infof("Database %s does not exist, creating it", dbName)
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %q", dbName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return nil
}

// setupGoose points the goose globals at our embedded lineage. Safe to
// call more than once.
func (s *Repository) setupGoose() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logging.GooseLogger{})
	dialect := "sqlite3"
	if s.driver == "postgres" {
		dialect = "postgres"
	}
	return goose.SetDialect(dialect)
}

// expectedLineage returns the ordered versions shipped with the binary.
func (s *Repository) expectedLineage() ([]int64, error) {
	ms, err := goose.CollectMigrations(migrations.Dir(s.driver), 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}
	versions := make([]int64, 0, len(ms))
	for _, m := range ms {
		versions = append(versions, m.Version)
	}
	return versions, nil
}

// appliedVersions reads the store's migration history in apply order.
// A missing version table yields an empty history (fresh database).
func (s *Repository) appliedVersions(ctx context.Context) ([]int64, error) {
	exists, err := s.versionTableExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		"SELECT version_id FROM goose_db_version WHERE is_applied ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v == 0 {
			continue // goose baseline row
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Repository) versionTableExists(ctx context.Context) (bool, error) {
	var query string
	switch s.driver {
	case "postgres":
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'goose_db_version'"
	default:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'goose_db_version'"
	}
	var n int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DiagnoseMigrations compares the applied history against the expected
// lineage without mutating anything.
func (s *Repository) DiagnoseMigrations(ctx context.Context) (MigrationDiagnosis, error) {
	if err := s.DB.PingContext(ctx); err != nil {
		return 0, classifyConnError(err, s.cfg.Database.DSN)
	}

	expected, err := s.expectedLineage()
	if err != nil {
		return 0, err
	}
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return 0, classifyConnError(err, s.cfg.Database.DSN)
	}

	if len(applied) > len(expected) {
		return DiagnosisDrifted, nil
	}
	for i, v := range applied {
		if v != expected[i] {
			return DiagnosisDrifted, nil
		}
	}
	if len(applied) == len(expected) {
		return DiagnosisUpToDate, nil
	}
	return DiagnosisBehind, nil
}

// RunMigrations brings the schema to the expected version. It runs
// once per process, before the server accepts traffic. Every error it
// returns is terminal: the caller must exit rather than serve against
// an unknown schema state. Already-applied migrations from a failed
// run stay applied; there is no rollback.
func (s *Repository) RunMigrations(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MigrateTimeoutParsed)
	defer cancel()

	log := logging.Migrations()

	if err := s.setupGoose(); err != nil {
		return err
	}

	diagnosis, err := s.DiagnoseMigrations(ctx)
	if err != nil {
		return err
	}
	log.WithField("diagnosis", diagnosis.String()).Debug("Migration diagnosis complete")

	switch diagnosis {
	case DiagnosisUpToDate:
		log.Debug("Schema is up to date, nothing to apply")
		return nil
	case DiagnosisBehind:
		log.Info("Schema is behind, applying pending migrations")
		if err := goose.UpContext(ctx, s.DB, migrations.Dir(s.driver)); err != nil {
			return fmt.Errorf("migration failed: %w", classifyConnError(err, s.cfg.Database.DSN))
		}
		log.Info("All pending migrations applied")
		return nil
	case DiagnosisDrifted:
		return fmt.Errorf("%w: refusing to guess a resolution", ErrSchemaDrift)
	}
	panic(fmt.Sprintf("unhandled migration diagnosis: %v", diagnosis))
}

// MigrateUp applies all pending migrations. Used by the CLI.
func (s *Repository) MigrateUp(ctx context.Context) error {
	if err := s.setupGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.DB, migrations.Dir(s.driver))
}

// MigrateDown rolls back a single migration. Used by the CLI.
func (s *Repository) MigrateDown(ctx context.Context) error {
	if err := s.setupGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, s.DB, migrations.Dir(s.driver))
}

// MigrateStatus prints the migration status. Used by the CLI.
func (s *Repository) MigrateStatus(ctx context.Context) error {
	if err := s.setupGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, s.DB, migrations.Dir(s.driver))
}
