package models

import "time"

// Team groups users and gates which billing targets they may log against.
// A user's selectable targets are exactly the union of AssociatedTargetIDs
// across all teams containing them.
type Team struct {
	ID                  string
	Name                string
	MemberIDs           []string
	AssociatedTargetIDs []string // billing target ids, any category
	CreatedAt           time.Time
}
