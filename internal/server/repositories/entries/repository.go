// Package entries declares the storage contract for time entries and
// provides the SQL-backed implementations.
package entries

import (
	"context"
	"time"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

// Repository is the entry store. Create and update share one code path
// (Save upserts by id); Delete is unconditional at this layer — status and
// role checks live in the service. Listing methods are pure filters.
type Repository interface {
	Save(ctx context.Context, entry *models.TimeEntry) error
	Get(ctx context.Context, id string) (*models.TimeEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.TimeEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error)
	ListByDateRange(ctx context.Context, start, end string) ([]*models.TimeEntry, error)
	ListByUserAndRange(ctx context.Context, userID, start, end string) ([]*models.TimeEntry, error)
	ListByTargetIDs(ctx context.Context, targetIDs []string, start, end string) ([]*models.TimeEntry, error)
	ListByStatus(ctx context.Context, status models.EntryStatus) ([]*models.TimeEntry, error)

	// UpdateStatus touches only status and updated_at; it is the entry
	// half of an approval transition and runs inside the workflow's
	// transaction.
	UpdateStatus(ctx context.Context, id string, status models.EntryStatus, updatedAt time.Time) error
}
