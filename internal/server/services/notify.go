package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// NotifyService surfaces in-app notifications: the workflow writes them
// during status transitions, managers can additionally nudge users whose
// timesheets are incomplete.
type NotifyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotifyService(db *sql.DB, rm repomanager.RepositoryManager) *NotifyService {
	return &NotifyService{db: db, repomanager: rm}
}

// List returns the actor's notifications, newest first.
func (s *NotifyService) List(ctx context.Context, actor Actor) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListByUser(ctx, actor.ID)
}

// MarkRead flags one of the actor's notifications as read. Marking a
// notification that belongs to someone else is forbidden.
func (s *NotifyService) MarkRead(ctx context.Context, actor Actor, id string) error {
	list, err := s.repomanager.Notifications(s.db).ListByUser(ctx, actor.ID)
	if err != nil {
		return err
	}
	for _, n := range list {
		if n.ID == id {
			return s.repomanager.Notifications(s.db).MarkRead(ctx, id)
		}
	}
	return common.ErrorNotFound
}

// CountUnread backs the badge in the navigation bar.
func (s *NotifyService) CountUnread(ctx context.Context, actor Actor) (int, error) {
	return s.repomanager.Notifications(s.db).CountUnread(ctx, actor.ID)
}

// Remind sends a manager-authored reminder to a user, typically about
// missing entries for a period.
func (s *NotifyService) Remind(ctx context.Context, actor Actor, userID, message string) error {
	if !actor.Role.CanApprove() {
		return common.ErrorForbidden
	}
	if message == "" {
		return common.ErrEmptyMessage
	}
	if _, err := s.repomanager.Users(s.db).Get(ctx, userID); err != nil {
		return err
	}
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   fmt.Sprintf("Reminder from %s: %s", actor.Name, message),
		CreatedAt: time.Now().UTC(),
	}
	return s.repomanager.Notifications(s.db).Create(ctx, n)
}
