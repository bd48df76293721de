package models

import "time"

// ApprovalAction is one append-only audit record of a status transition.
// Rows are inserted exactly once per transition and never mutated.
type ApprovalAction struct {
	ID             string
	EntryID        string
	PreviousStatus EntryStatus
	NewStatus      EntryStatus
	Message        string // required, free text
	ApprovedBy     string
	ApprovedAt     time.Time
}
