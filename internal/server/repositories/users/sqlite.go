package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, role, billable_rate, available_hours, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	u.CreatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Role, u.BillableRate, u.AvailableHours, u.PasswordHash, u.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SqliteRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SqliteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *SqliteRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.BillableRate,
			&u.AvailableHours, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SqliteRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.BillableRate,
		&u.AvailableHours, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}
