package models

import "time"

// EntryStatus is the workflow state of a time entry. An entry starts
// pending and leaves that state exactly once.
type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

// Valid reports whether s is one of the known workflow states.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s EntryStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ProjectDetails names the billing target an entry was logged against,
// plus the selected breakdown labels. TargetID is the stable reference;
// Name and the labels are denormalized for display and export.
type ProjectDetails struct {
	Category    string `json:"category"`
	TargetID    string `json:"targetId"`
	Name        string `json:"name"`
	Level       string `json:"level"`
	Task        string `json:"task"`
	Subtask     string `json:"subtask"`
	Description string `json:"description"`
}

// TimeEntry is one day's logged work against a single billing target.
type TimeEntry struct {
	ID             string
	UserID         string
	UserName       string // denormalized at save time
	Date           string // calendar day, YYYY-MM-DD, no time zone modeling
	ActualHours    float64
	BillableHours  float64
	TotalHours     float64
	AvailableHours float64 // daily capacity snapshot
	Task           string
	ProjectDetails ProjectDetails
	IsBillable     bool // stamped from the billing target, not client input
	Status         EntryStatus
	ClockIn        string // optional "HH:MM", feeds hour derivation
	ClockOut       string
	BreakMinutes   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
