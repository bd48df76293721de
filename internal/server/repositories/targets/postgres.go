package targets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

const targetColumns = `id, category, name, description, is_billable, breakdown, created_at`

// PostgresRepository implements billing-target storage over a dbx.DBTX.
// The breakdown tree is stored as a JSONB document.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.BillingTarget) error {
	breakdown, err := json.Marshal(t.Breakdown)
	if err != nil {
		return fmt.Errorf("breakdown marshal error: %w", err)
	}
	query := `
		INSERT INTO billing_targets (id, category, name, description, is_billable, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		t.ID, t.Category, t.Name, t.Description, t.IsBillable, breakdown); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE id = $1`
	return scanTarget(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByCategoryAndName(ctx context.Context, category, name string) (*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE category = $1 AND name = $2`
	return scanTarget(r.db.QueryRowContext(ctx, query, category, name))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets ORDER BY category, name`
	return r.queryTargets(ctx, query)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]*models.BillingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM billing_targets WHERE category = $1 ORDER BY name`
	return r.queryTargets(ctx, query, category)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.BillingTarget, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT `+targetColumns+` FROM billing_targets
		WHERE id IN (%s) ORDER BY category, name`, strings.Join(placeholders, ", "))
	return r.queryTargets(ctx, query, args...)
}

func (r *PostgresRepository) queryTargets(ctx context.Context, query string, args ...any) ([]*models.BillingTarget, error) {
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

func scanTarget(row *sql.Row) (*models.BillingTarget, error) {
	t, err := scanTargetRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTargetRow(row rowScanner) (*models.BillingTarget, error) {
	var t models.BillingTarget
	var breakdown []byte
	if err := row.Scan(&t.ID, &t.Category, &t.Name, &t.Description, &t.IsBillable,
		&breakdown, &t.CreatedAt); err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &t.Breakdown); err != nil {
			return nil, fmt.Errorf("breakdown unmarshal error: %w", err)
		}
	}
	return &t, nil
}
