package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/hourkeep/hourkeep/internal/dbx"
	sqlitemigrations "github.com/hourkeep/hourkeep/internal/server/migrations/sqlite"
	"github.com/hourkeep/hourkeep/internal/server/repositories/approvals"
	"github.com/hourkeep/hourkeep/internal/server/repositories/entries"
	"github.com/hourkeep/hourkeep/internal/server/repositories/notifications"
	"github.com/hourkeep/hourkeep/internal/server/repositories/refreshtokens"
	"github.com/hourkeep/hourkeep/internal/server/repositories/targets"
	"github.com/hourkeep/hourkeep/internal/server/repositories/teams"
	"github.com/hourkeep/hourkeep/internal/server/repositories/users"
)

// SqliteRepositoryManager vends SQLite-backed repository implementations.
// It is the local/demo storage adapter; the business logic never knows
// which backend it runs on.
type SqliteRepositoryManager struct{}

// NewSqliteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSqliteRepositoryManager() RepositoryManager {
	return &SqliteRepositoryManager{}
}

func (m *SqliteRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Teams(db dbx.DBTX) teams.Repository {
	return teams.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Targets(db dbx.DBTX) targets.Repository {
	return targets.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Approvals(db dbx.DBTX) approvals.Repository {
	return approvals.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
