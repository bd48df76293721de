// Package services contains the server-side business logic: entry storage
// rules, the approval workflow, association resolution, reporting, exports,
// and account handling.
package services

import "github.com/hourkeep/hourkeep/internal/server/models"

// Actor identifies the authenticated user performing an operation. It is
// passed explicitly into every service call; there is no ambient
// "current user".
type Actor struct {
	ID   string
	Name string
	Role models.Role
}
