// Package users declares the server-side repository contract for user
// accounts and provides the SQL-backed implementations.
package users

import (
	"context"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
