package httpapi

import (
	"time"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

type timeEntryDTO struct {
	ID             string                `json:"id,omitempty"`
	UserID         string                `json:"userId,omitempty"`
	UserName       string                `json:"userName,omitempty"`
	Date           string                `json:"date"`
	ActualHours    float64               `json:"actualHours"`
	BillableHours  float64               `json:"billableHours"`
	TotalHours     float64               `json:"totalHours"`
	AvailableHours float64               `json:"availableHours"`
	Task           string                `json:"task,omitempty"`
	ProjectDetails models.ProjectDetails `json:"projectDetails"`
	IsBillable     bool                  `json:"isBillable"`
	Status         models.EntryStatus    `json:"status,omitempty"`
	ClockIn        string                `json:"clockIn,omitempty"`
	ClockOut       string                `json:"clockOut,omitempty"`
	BreakMinutes   int                   `json:"breakMinutes,omitempty"`
	CreatedAt      time.Time             `json:"createdAt,omitempty"`
	UpdatedAt      time.Time             `json:"updatedAt,omitempty"`
}

func entryToDTO(e *models.TimeEntry) timeEntryDTO {
	return timeEntryDTO{
		ID:             e.ID,
		UserID:         e.UserID,
		UserName:       e.UserName,
		Date:           e.Date,
		ActualHours:    e.ActualHours,
		BillableHours:  e.BillableHours,
		TotalHours:     e.TotalHours,
		AvailableHours: e.AvailableHours,
		Task:           e.Task,
		ProjectDetails: e.ProjectDetails,
		IsBillable:     e.IsBillable,
		Status:         e.Status,
		ClockIn:        e.ClockIn,
		ClockOut:       e.ClockOut,
		BreakMinutes:   e.BreakMinutes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (d timeEntryDTO) toModel() *models.TimeEntry {
	return &models.TimeEntry{
		ID:             d.ID,
		UserID:         d.UserID,
		Date:           d.Date,
		ActualHours:    d.ActualHours,
		BillableHours:  d.BillableHours,
		TotalHours:     d.TotalHours,
		AvailableHours: d.AvailableHours,
		Task:           d.Task,
		ProjectDetails: d.ProjectDetails,
		ClockIn:        d.ClockIn,
		ClockOut:       d.ClockOut,
		BreakMinutes:   d.BreakMinutes,
	}
}

func entriesToDTO(list []*models.TimeEntry) []timeEntryDTO {
	out := make([]timeEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, entryToDTO(e))
	}
	return out
}

type approvalActionDTO struct {
	ID             string             `json:"id"`
	EntryID        string             `json:"entryId"`
	PreviousStatus models.EntryStatus `json:"previousStatus"`
	NewStatus      models.EntryStatus `json:"newStatus"`
	Message        string             `json:"message"`
	ApprovedBy     string             `json:"approvedBy"`
	ApprovedAt     time.Time          `json:"approvedAt"`
}

func actionToDTO(a *models.ApprovalAction) approvalActionDTO {
	return approvalActionDTO{
		ID:             a.ID,
		EntryID:        a.EntryID,
		PreviousStatus: a.PreviousStatus,
		NewStatus:      a.NewStatus,
		Message:        a.Message,
		ApprovedBy:     a.ApprovedBy,
		ApprovedAt:     a.ApprovedAt,
	}
}

type userDTO struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	AvailableHours float64     `json:"availableHours"`
}

func userToDTO(u *models.User) userDTO {
	return userDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		AvailableHours: u.AvailableHours,
	}
}

type targetDTO struct {
	ID          string                 `json:"id"`
	Category    string                 `json:"category"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	IsBillable  bool                   `json:"isBillable"`
	Breakdown   []models.BreakdownNode `json:"breakdown,omitempty"`
}

func targetToDTO(t *models.BillingTarget) targetDTO {
	return targetDTO{
		ID:          t.ID,
		Category:    t.Category,
		Name:        t.Name,
		Description: t.Description,
		IsBillable:  t.IsBillable,
		Breakdown:   t.Breakdown,
	}
}

func targetsToDTO(list []*models.BillingTarget) []targetDTO {
	out := make([]targetDTO, 0, len(list))
	for _, t := range list {
		out = append(out, targetToDTO(t))
	}
	return out
}

type teamDTO struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	MemberIDs           []string `json:"memberIds"`
	AssociatedTargetIDs []string `json:"associatedTargetIds"`
}

func teamToDTO(t *models.Team) teamDTO {
	return teamDTO{
		ID:                  t.ID,
		Name:                t.Name,
		MemberIDs:           t.MemberIDs,
		AssociatedTargetIDs: t.AssociatedTargetIDs,
	}
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func notificationToDTO(n *models.Notification) notificationDTO {
	return notificationDTO{ID: n.ID, Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt}
}
