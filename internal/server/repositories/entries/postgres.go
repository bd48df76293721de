package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

const entryColumns = `id, user_id, user_name, entry_date, actual_hours, billable_hours, total_hours,
		available_hours, task, category, target_id, target_name, breakdown_level, breakdown_task,
		breakdown_subtask, details_description, is_billable, status, clock_in, clock_out,
		break_minutes, created_at, updated_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts an entry by ID. Insert and update are one statement, so the
// caller does not need to know whether the id is new.
func (r *PostgresRepository) Save(ctx context.Context, e *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (id)
		DO UPDATE SET
			user_name = EXCLUDED.user_name,
			entry_date = EXCLUDED.entry_date,
			actual_hours = EXCLUDED.actual_hours,
			billable_hours = EXCLUDED.billable_hours,
			total_hours = EXCLUDED.total_hours,
			available_hours = EXCLUDED.available_hours,
			task = EXCLUDED.task,
			category = EXCLUDED.category,
			target_id = EXCLUDED.target_id,
			target_name = EXCLUDED.target_name,
			breakdown_level = EXCLUDED.breakdown_level,
			breakdown_task = EXCLUDED.breakdown_task,
			breakdown_subtask = EXCLUDED.breakdown_subtask,
			details_description = EXCLUDED.details_description,
			is_billable = EXCLUDED.is_billable,
			status = EXCLUDED.status,
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			break_minutes = EXCLUDED.break_minutes,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.UserName, e.Date, e.ActualHours, e.BillableHours, e.TotalHours,
		e.AvailableHours, e.Task, e.ProjectDetails.Category, e.ProjectDetails.TargetID,
		e.ProjectDetails.Name, e.ProjectDetails.Level, e.ProjectDetails.Task,
		e.ProjectDetails.Subtask, e.ProjectDetails.Description, e.IsBillable, e.Status,
		e.ClockIn, e.ClockOut, e.BreakMinutes, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns one entry by id or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = $1`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Delete removes an entry unconditionally. Status and role checks are the
// caller's responsibility.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE user_id = $1 ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, userID)
}

func (r *PostgresRepository) ListByDateRange(ctx context.Context, start, end string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries
		WHERE entry_date >= $1 AND entry_date <= $2 ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, start, end)
}

func (r *PostgresRepository) ListByUserAndRange(ctx context.Context, userID, start, end string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3 ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, userID, start, end)
}

// ListByTargetIDs returns entries logged against any of targetIDs within
// [start, end]. Used by the team-scoped reports, which restrict by stable
// target ids rather than display names.
func (r *PostgresRepository) ListByTargetIDs(ctx context.Context, targetIDs []string, start, end string) ([]*models.TimeEntry, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(targetIDs))
	args := make([]any, 0, len(targetIDs)+2)
	for i, id := range targetIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, start, end)
	query := fmt.Sprintf(`SELECT `+entryColumns+` FROM time_entries
		WHERE target_id IN (%s) AND entry_date >= $%d AND entry_date <= $%d
		ORDER BY entry_date, created_at`,
		strings.Join(placeholders, ", "), len(targetIDs)+1, len(targetIDs)+2)
	return r.queryEntries(ctx, query, args...)
}

// ListByStatus returns all entries in the given status, oldest first. It
// backs the approvers' review queue.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status models.EntryStatus) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE status = $1 ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, status)
}

// UpdateStatus updates only status and updated_at. A missing row surfaces
// as common.ErrorNotFound so the surrounding transaction aborts.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.TimeEntry, error) {
	var e models.TimeEntry
	if err := row.Scan(
		&e.ID, &e.UserID, &e.UserName, &e.Date, &e.ActualHours, &e.BillableHours, &e.TotalHours,
		&e.AvailableHours, &e.Task, &e.ProjectDetails.Category, &e.ProjectDetails.TargetID,
		&e.ProjectDetails.Name, &e.ProjectDetails.Level, &e.ProjectDetails.Task,
		&e.ProjectDetails.Subtask, &e.ProjectDetails.Description, &e.IsBillable, &e.Status,
		&e.ClockIn, &e.ClockOut, &e.BreakMinutes, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
