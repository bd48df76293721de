package approvals

import (
	"context"
	"fmt"

	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

// PostgresRepository implements the approval history over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, a *models.ApprovalAction) error {
	query := `
		INSERT INTO approval_actions (id, entry_id, previous_status, new_status, message, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		a.ID, a.EntryID, a.PreviousStatus, a.NewStatus, a.Message, a.ApprovedBy, a.ApprovedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.ApprovalAction, error) {
	query := `
		SELECT id, entry_id, previous_status, new_status, message, approved_by, approved_at
		FROM approval_actions
		WHERE entry_id = $1
		ORDER BY approved_at
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select approval actions: %w", err)
	}
	defer rows.Close()

	var result []*models.ApprovalAction
	for rows.Next() {
		var a models.ApprovalAction
		if err := rows.Scan(&a.ID, &a.EntryID, &a.PreviousStatus, &a.NewStatus,
			&a.Message, &a.ApprovedBy, &a.ApprovedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
