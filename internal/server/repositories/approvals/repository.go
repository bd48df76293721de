// Package approvals declares the storage contract for the append-only
// approval history and provides the SQL-backed implementations.
package approvals

import (
	"context"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

// Repository is append-only on purpose: there is no update or delete.
// Every status transition inserts exactly one row, inside the same
// transaction that flips the entry's status.
type Repository interface {
	Append(ctx context.Context, action *models.ApprovalAction) error
	ListByEntry(ctx context.Context, entryID string) ([]*models.ApprovalAction, error)
}
