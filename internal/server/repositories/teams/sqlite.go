package teams

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

func (r *SqliteRepository) Create(ctx context.Context, t *models.Team) error {
	members, targets, err := marshalIDLists(t)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO teams (id, name, member_ids, target_ids, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, members, targets, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SqliteRepository) Get(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ?`
	t, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SqliteRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`
	return r.queryTeams(ctx, query)
}

// ListByMember walks the JSON member list with json_each (JSON1 extension,
// compiled into mattn/go-sqlite3 by default).
func (r *SqliteRepository) ListByMember(ctx context.Context, userID string) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams
		WHERE EXISTS (SELECT 1 FROM json_each(teams.member_ids) WHERE json_each.value = ?)
		ORDER BY name`
	return r.queryTeams(ctx, query, userID)
}

func (r *SqliteRepository) queryTeams(ctx context.Context, query string, args ...any) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select teams: %w", err)
	}
	defer rows.Close()

	var result []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
