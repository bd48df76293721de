package targets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

// SqliteRepository stores the breakdown tree as a JSON text column.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Create(ctx context.Context, t *models.BillingTarget) error {
	breakdown, err := json.Marshal(t.Breakdown)
	if err != nil {
		return fmt.Errorf("breakdown marshal error: %w", err)
	}
	query := `
		INSERT INTO billing_targets (id, category, name, description, is_billable, breakdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		t.ID, t.Category, t.Name, t.Description, t.IsBillable, breakdown, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SqliteRepository) Get(ctx context.Context, id string) (*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE id = ?`
	return scanTarget(r.db.QueryRowContext(ctx, query, id))
}

func (r *SqliteRepository) GetByCategoryAndName(ctx context.Context, category, name string) (*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE category = ? AND name = ?`
	return scanTarget(r.db.QueryRowContext(ctx, query, category, name))
}

func (r *SqliteRepository) List(ctx context.Context) ([]*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets ORDER BY category, name`
	return r.queryTargets(ctx, query)
}

func (r *SqliteRepository) ListByCategory(ctx context.Context, category string) ([]*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE category = ? ORDER BY name`
	return r.queryTargets(ctx, query, category)
}

func (r *SqliteRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.BillingTarget, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT `+targetColumns+` FROM billing_targets
		WHERE id IN (%s) ORDER BY category, name`, placeholders)
	return r.queryTargets(ctx, query, args...)
}

func (r *SqliteRepository) queryTargets(ctx context.Context, query string, args ...any) ([]*models.BillingTarget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select targets: %w", err)
	}
	defer rows.Close()

	var result []*models.BillingTarget
	for rows.Next() {
		t, err := scanTargetRow(rows)
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
