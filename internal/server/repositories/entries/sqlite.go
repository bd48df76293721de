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

// SqliteRepository is the local/demo adapter. Identical contract to the
// PostgreSQL implementation, question-mark placeholders.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Save(ctx context.Context, e *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			user_name = excluded.user_name,
			entry_date = excluded.entry_date,
			actual_hours = excluded.actual_hours,
			billable_hours = excluded.billable_hours,
			total_hours = excluded.total_hours,
			available_hours = excluded.available_hours,
			task = excluded.task,
			category = excluded.category,
			target_id = excluded.target_id,
			target_name = excluded.target_name,
			breakdown_level = excluded.breakdown_level,
			breakdown_task = excluded.breakdown_task,
			breakdown_subtask = excluded.breakdown_subtask,
			details_description = excluded.details_description,
			is_billable = excluded.is_billable,
			status = excluded.status,
			clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			break_minutes = excluded.break_minutes,
			updated_at = excluded.updated_at
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

func (r *SqliteRepository) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = ?`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SqliteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
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

func (r *SqliteRepository) List(ctx context.Context) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query)
}

func (r *SqliteRepository) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE user_id = ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, userID)
}

func (r *SqliteRepository) ListByDateRange(ctx context.Context, start, end string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries
		WHERE entry_date >= ? AND entry_date <= ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, start, end)
}

func (r *SqliteRepository) ListByUserAndRange(ctx context.Context, userID, start, end string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries
		WHERE user_id = ? AND entry_date >= ? AND entry_date <= ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, userID, start, end)
}

func (r *SqliteRepository) ListByTargetIDs(ctx context.Context, targetIDs []string, start, end string) ([]*models.TimeEntry, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(targetIDs)), ", ")
	args := make([]any, 0, len(targetIDs)+2)
	for _, id := range targetIDs {
		args = append(args, id)
	}
	args = append(args, start, end)
	query := fmt.Sprintf(`SELECT `+entryColumns+` FROM time_entries
		WHERE target_id IN (%s) AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date, created_at`, placeholders)
	return r.queryEntries(ctx, query, args...)
}

func (r *SqliteRepository) ListByStatus(ctx context.Context, status models.EntryStatus) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE status = ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, status)
}

func (r *SqliteRepository) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET status = ?, updated_at = ? WHERE id = ?`,
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

func (r *SqliteRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.TimeEntry, error) {
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
