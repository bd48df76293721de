package teams

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

const teamColumns = `id, name, member_ids, target_ids, created_at`

// PostgresRepository stores member and target id lists as JSONB arrays.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Team) error {
	members, targets, err := marshalIDLists(t)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO teams (id, name, member_ids, target_ids)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, members, targets); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`
	return r.queryTeams(ctx, query)
}

// ListByMember uses a JSONB containment check so membership stays a single
// indexed query.
func (r *PostgresRepository) ListByMember(ctx context.Context, userID string) ([]*models.Team, error) {
	member, err := json.Marshal([]string{userID})
	if err != nil {
		return nil, fmt.Errorf("member marshal error: %w", err)
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE member_ids @> $1::jsonb ORDER BY name`
	return r.queryTeams(ctx, query, member)
}

func (r *PostgresRepository) queryTeams(ctx context.Context, query string, args ...any) ([]*models.Team, error) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	var members, targets []byte
	if err := row.Scan(&t.ID, &t.Name, &members, &targets, &t.CreatedAt); err != nil {
		return nil, err
	}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &t.MemberIDs); err != nil {
			return nil, fmt.Errorf("member_ids unmarshal error: %w", err)
		}
	}
	if len(targets) > 0 {
		if err := json.Unmarshal(targets, &t.AssociatedTargetIDs); err != nil {
			return nil, fmt.Errorf("target_ids unmarshal error: %w", err)
		}
	}
	return &t, nil
}

func marshalIDLists(t *models.Team) ([]byte, []byte, error) {
	members, err := json.Marshal(emptyIfNil(t.MemberIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("member_ids marshal error: %w", err)
	}
	targets, err := json.Marshal(emptyIfNil(t.AssociatedTargetIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("target_ids marshal error: %w", err)
	}
	return members, targets, nil
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
