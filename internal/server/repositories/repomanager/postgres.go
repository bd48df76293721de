// Package repomanager provides concrete RepositoryManagers, wiring together
// repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hourkeep/hourkeep/internal/dbx"
	pgmigrations "github.com/hourkeep/hourkeep/internal/server/migrations/postgres"
	"github.com/hourkeep/hourkeep/internal/server/repositories/approvals"
	"github.com/hourkeep/hourkeep/internal/server/repositories/entries"
	"github.com/hourkeep/hourkeep/internal/server/repositories/notifications"
	"github.com/hourkeep/hourkeep/internal/server/repositories/refreshtokens"
	"github.com/hourkeep/hourkeep/internal/server/repositories/targets"
	"github.com/hourkeep/hourkeep/internal/server/repositories/teams"
	"github.com/hourkeep/hourkeep/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Teams(db dbx.DBTX) teams.Repository {
	return teams.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Targets(db dbx.DBTX) targets.Repository {
	return targets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Approvals(db dbx.DBTX) approvals.Repository {
	return approvals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
