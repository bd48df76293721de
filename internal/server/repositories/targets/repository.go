// Package targets declares the storage contract for billing targets
// (projects, products, departments) and provides the SQL-backed
// implementations.
package targets

import (
	"context"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, target *models.BillingTarget) error
	Get(ctx context.Context, id string) (*models.BillingTarget, error)

	// GetByCategoryAndName is the legacy lookup the old UI relied on.
	// Returns common.ErrorNotFound when no target matches.
	GetByCategoryAndName(ctx context.Context, category, name string) (*models.BillingTarget, error)

	List(ctx context.Context) ([]*models.BillingTarget, error)
	ListByCategory(ctx context.Context, category string) ([]*models.BillingTarget, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.BillingTarget, error)
}
