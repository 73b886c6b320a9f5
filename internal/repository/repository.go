// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"filedrop/internal/config"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq" // Postgres driver
	"github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository is the relational store for users, files, short URLs and
// refresh tokens. It also owns the migration orchestration for the
// schema it reads from.
type Repository struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType // SQL Query Builder

	cfg    *config.Config
	driver string // sql driver name ("sqlite" or "postgres")
}

// NewRepository opens a connection for the configured driver. It does
// not touch the schema; see RunMigrations.
func NewRepository(cfg *config.Config) (*Repository, error) {
	var driver string
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	switch cfg.Database.Driver {
	case "sqlite":
		driver = "sqlite"
	case "postgres":
		driver = "postgres"
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := sql.Open(driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	return &Repository{
		DB:      db,
		Cache:   cache.New(5*time.Minute, 10*time.Minute),
		Builder: builder,
		cfg:     cfg,
		driver:  driver,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Repository) Close() error {
	return s.DB.Close()
}
