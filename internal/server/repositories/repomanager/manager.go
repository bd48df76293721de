package repomanager

import (
	"context"
	"database/sql"

	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/repositories/approvals"
	"github.com/hourkeep/hourkeep/internal/server/repositories/entries"
	"github.com/hourkeep/hourkeep/internal/server/repositories/notifications"
	"github.com/hourkeep/hourkeep/internal/server/repositories/refreshtokens"
	"github.com/hourkeep/hourkeep/internal/server/repositories/targets"
	"github.com/hourkeep/hourkeep/internal/server/repositories/teams"
	"github.com/hourkeep/hourkeep/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories against one shared transaction. Two
// implementations exist: PostgreSQL (primary) and SQLite (local/demo).
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Teams(db dbx.DBTX) teams.Repository
	Targets(db dbx.DBTX) targets.Repository
	Approvals(db dbx.DBTX) approvals.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
