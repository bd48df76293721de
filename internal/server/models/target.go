package models

import "time"

// BreakdownNode is one node of a billing target's three-level breakdown
// (level -> task -> subtask; the label vocabulary varies by category).
type BreakdownNode struct {
	Name     string          `json:"name"`
	Children []BreakdownNode `json:"children,omitempty"`
}

// BillingTarget is a Project, Product, or Department a user may log hours
// against. IsBillable propagates to entries at save time.
type BillingTarget struct {
	ID          string
	Category    string // hierarchy.CategoryProject etc.
	Name        string
	Description string
	IsBillable  bool
	Breakdown   []BreakdownNode
	CreatedAt   time.Time
}
