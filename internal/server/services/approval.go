package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/dbx"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// ApprovalService applies status transitions to time entries. A transition
// performs three writes together inside one transaction: the entry's
// status, one append-only ApprovalAction, and one Notification for the
// entry's owner. Partial failure rolls everything back; an approved entry
// can never exist without its history record.
type ApprovalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApprovalService(db *sql.DB, rm repomanager.RepositoryManager) *ApprovalService {
	return &ApprovalService{db: db, repomanager: rm}
}

// SetStatus moves a pending entry to approved or rejected. The message is
// required; it is recorded in the history and relayed to the entry owner.
// Entries already approved or rejected return ErrEntryNotPending: rejected
// entries are not resubmittable, a new entry must be created instead.
func (s *ApprovalService) SetStatus(ctx context.Context, actor Actor, entryID string, newStatus models.EntryStatus, message string) (*models.ApprovalAction, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	if !newStatus.Terminal() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidTransition, newStatus)
	}
	if strings.TrimSpace(message) == "" {
		return nil, common.ErrEmptyMessage
	}

	var action *models.ApprovalAction

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entryRepo := s.repomanager.Entries(tx)

		entry, err := entryRepo.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != models.StatusPending {
			return common.ErrEntryNotPending
		}

		now := time.Now().UTC()
		if err := entryRepo.UpdateStatus(ctx, entryID, newStatus, now); err != nil {
			return err
		}

		action = &models.ApprovalAction{
			ID:             uuid.NewString(),
			EntryID:        entryID,
			PreviousStatus: entry.Status,
			NewStatus:      newStatus,
			Message:        message,
			ApprovedBy:     actor.Name,
			ApprovedAt:     now,
		}
		if err := s.repomanager.Approvals(tx).Append(ctx, action); err != nil {
			return err
		}

		notification := &models.Notification{
			ID:        uuid.NewString(),
			UserID:    entry.UserID,
			Message:   fmt.Sprintf("Your timesheet entry for %s has been %s. %s", entry.Date, newStatus, message),
			CreatedAt: now,
		}
		return s.repomanager.Notifications(tx).Create(ctx, notification)
	})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// BulkResult reports the outcome of one entry in a bulk transition.
type BulkResult struct {
	EntryID string
	Err     error
}

// BulkSetStatus applies SetStatus to each entry independently. Each
// transition is atomic on its own; one failure does not roll back the
// others, and every outcome is reported.
func (s *ApprovalService) BulkSetStatus(ctx context.Context, actor Actor, entryIDs []string, newStatus models.EntryStatus, message string) []BulkResult {
	results := make([]BulkResult, 0, len(entryIDs))
	for _, id := range entryIDs {
		_, err := s.SetStatus(ctx, actor, id, newStatus, message)
		results = append(results, BulkResult{EntryID: id, Err: err})
	}
	return results
}

// History returns the append-only approval log of an entry, oldest first.
func (s *ApprovalService) History(ctx context.Context, entryID string) ([]*models.ApprovalAction, error) {
	return s.repomanager.Approvals(s.db).ListByEntry(ctx, entryID)
}
