// Package notifications declares the storage contract for user
// notifications and provides the SQL-backed implementations.
package notifications

import (
	"context"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}
