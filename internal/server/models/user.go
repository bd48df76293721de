package models

import "time"

// Role controls what a user may do: employees log time, managers approve
// and run reports, owners additionally delete non-pending entries.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// CanApprove reports whether the role may act on pending entries.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleOwner
}

type User struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	BillableRate   float64
	AvailableHours float64 // daily capacity baseline
	PasswordHash   string
	CreatedAt      time.Time
}
