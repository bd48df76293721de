package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/hierarchy"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
	"github.com/hourkeep/hourkeep/internal/timecalc"
)

// EntryService owns the save/read/delete rules for time entries. The
// repository layer stores whatever it is given; everything the old forms
// enforced client-side (billable stamping, hour derivation, delete policy)
// lives here.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEntryService(db *sql.DB, rm repomanager.RepositoryManager) *EntryService {
	return &EntryService{db: db, repomanager: rm}
}

// Save upserts an entry. Create and update share this one code path: a
// blank id means create. Rules applied on every save:
//
//   - employees may only save their own entries, and only while pending
//   - UserName and AvailableHours are stamped from the entry's user
//   - IsBillable comes from the referenced billing target, never the client
//   - clock-in/out, when present, derive ActualHours
//   - BillableHours is clamped to min(actual, available)
//   - TotalHours defaults to ActualHours and never drops below it
func (s *EntryService) Save(ctx context.Context, actor Actor, e *models.TimeEntry) (*models.TimeEntry, error) {
	entryRepo := s.repomanager.Entries(s.db)

	if e.UserID == "" {
		e.UserID = actor.ID
	}
	if actor.Role == models.RoleEmployee && e.UserID != actor.ID {
		return nil, common.ErrorForbidden
	}

	if _, err := timecalc.ParseDay(e.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if e.ActualHours < 0 || e.BillableHours < 0 || e.AvailableHours < 0 {
		return nil, fmt.Errorf("%w: hours must not be negative", common.ErrorValidation)
	}

	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
		e.Status = models.StatusPending
		e.CreatedAt = now
	} else {
		existing, err := entryRepo.Get(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if actor.Role == models.RoleEmployee && existing.Status != models.StatusPending {
			return nil, common.ErrEntryNotPending
		}
		// status changes only go through the approval workflow
		e.Status = existing.Status
		e.CreatedAt = existing.CreatedAt
	}
	e.UpdatedAt = now

	owner, err := s.repomanager.Users(s.db).Get(ctx, e.UserID)
	if err != nil {
		return nil, fmt.Errorf("error resolving entry user: %w", err)
	}
	e.UserName = owner.Name
	if e.AvailableHours == 0 {
		e.AvailableHours = owner.AvailableHours
	}

	if err := s.stampBilling(ctx, e); err != nil {
		return nil, err
	}

	if e.ClockIn != "" && e.ClockOut != "" {
		hours, err := timecalc.HoursBetween(e.ClockIn, e.ClockOut, e.BreakMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		e.ActualHours = hours
	}

	e.BillableHours = timecalc.ClampBillable(e.ActualHours, e.AvailableHours)
	if e.TotalHours < e.ActualHours {
		e.TotalHours = e.ActualHours
	}

	if err := entryRepo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("error saving entry: %w", err)
	}
	return e, nil
}

// stampBilling resolves the billing target named by ProjectDetails and
// copies its billable flag onto the entry. An entry without a resolvable
// target is never billable.
func (s *EntryService) stampBilling(ctx context.Context, e *models.TimeEntry) error {
	d := &e.ProjectDetails
	if d.Category == "" && d.TargetID == "" {
		e.IsBillable = false
		return nil
	}
	if d.Category != "" && !hierarchy.Known(d.Category) {
		return fmt.Errorf("%w: %q", common.ErrUnknownCategory, d.Category)
	}

	targetRepo := s.repomanager.Targets(s.db)

	var target *models.BillingTarget
	var err error
	if d.TargetID != "" {
		target, err = targetRepo.Get(ctx, d.TargetID)
	} else {
		// legacy lookup for clients that only send category+name
		target, err = targetRepo.GetByCategoryAndName(ctx, d.Category, d.Name)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			e.IsBillable = false
			return nil
		}
		return fmt.Errorf("error resolving billing target: %w", err)
	}

	sel := hierarchy.Selection{Level: d.Level, Task: d.Task, Subtask: d.Subtask}
	if err := sel.Validate(target); err != nil {
		return err
	}

	d.TargetID = target.ID
	d.Category = target.Category
	d.Name = target.Name
	e.IsBillable = target.IsBillable
	return nil
}

// Get returns one entry. Employees may only read their own.
func (s *EntryService) Get(ctx context.Context, actor Actor, id string) (*models.TimeEntry, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleEmployee && e.UserID != actor.ID {
		return nil, common.ErrorForbidden
	}
	return e, nil
}

// Delete enforces the delete policy: owners delete anything; everyone else
// only their own pending entries. The repository itself deletes
// unconditionally.
func (s *EntryService) Delete(ctx context.Context, actor Actor, id string) error {
	entryRepo := s.repomanager.Entries(s.db)
	e, err := entryRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleOwner {
		if e.UserID != actor.ID {
			return common.ErrorForbidden
		}
		if e.Status != models.StatusPending {
			return common.ErrEntryNotPending
		}
	}
	return entryRepo.Delete(ctx, id)
}

// List returns entries visible to the actor: employees see their own,
// managers and owners see everything.
func (s *EntryService) List(ctx context.Context, actor Actor) ([]*models.TimeEntry, error) {
	repo := s.repomanager.Entries(s.db)
	if actor.Role == models.RoleEmployee {
		return repo.ListByUser(ctx, actor.ID)
	}
	return repo.List(ctx)
}

// ListByStatus returns the review queue for a status, e.g. every pending
// entry awaiting a decision. Approvers only.
func (s *EntryService) ListByStatus(ctx context.Context, actor Actor, status models.EntryStatus) ([]*models.TimeEntry, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return s.repomanager.Entries(s.db).ListByStatus(ctx, status)
}

// ListRange returns entries within [start, end], scoped like List.
func (s *EntryService) ListRange(ctx context.Context, actor Actor, start, end string) ([]*models.TimeEntry, error) {
	if _, err := timecalc.ParseDay(start); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if _, err := timecalc.ParseDay(end); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	repo := s.repomanager.Entries(s.db)
	if actor.Role == models.RoleEmployee {
		return repo.ListByUserAndRange(ctx, actor.ID, start, end)
	}
	return repo.ListByDateRange(ctx, start, end)
}
