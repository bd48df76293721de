// Package teams declares the storage contract for teams, the membership
// grouping that gates which billing targets a user may log against.
package teams

import (
	"context"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, team *models.Team) error
	Get(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)

	// ListByMember returns every team whose member list contains userID.
	ListByMember(ctx context.Context, userID string) ([]*models.Team, error)
}
