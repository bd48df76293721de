// Package hierarchy describes the three-level breakdown of each billing
// category with one schema instead of per-category code paths. The tree is
// always level -> task -> subtask; only the field labels differ by category.
package hierarchy

import (
	"fmt"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

const (
	CategoryProject    = "project"
	CategoryProduct    = "product"
	CategoryDepartment = "department"
)

// Schema names the three breakdown levels for one category.
type Schema struct {
	Category     string
	LevelLabel   string
	TaskLabel    string
	SubtaskLabel string
}

var schemas = map[string]Schema{
	CategoryProject:    {CategoryProject, "level", "task", "subtask"},
	CategoryProduct:    {CategoryProduct, "stage", "duty", "task"},
	CategoryDepartment: {CategoryDepartment, "function", "duty", "task"},
}

// For returns the breakdown schema for a category.
func For(category string) (Schema, error) {
	s, ok := schemas[category]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}
	return s, nil
}

// Known reports whether category is a valid billing category.
func Known(category string) bool {
	_, ok := schemas[category]
	return ok
}

// Selection is a path through a target's breakdown tree. Deeper fields may
// be empty; a set field requires all shallower fields to be set.
type Selection struct {
	Level   string
	Task    string
	Subtask string
}

// Validate checks that the selection is a prefix path and that each named
// node exists in the target's breakdown tree.
func (s Selection) Validate(target *models.BillingTarget) error {
	if s.Level == "" {
		if s.Task != "" || s.Subtask != "" {
			return fmt.Errorf("%w: breakdown selected without a first level", common.ErrorValidation)
		}
		return nil
	}
	level := findNode(target.Breakdown, s.Level)
	if level == nil {
		return fmt.Errorf("%w: unknown %s %q", common.ErrorValidation, mustLabel(target.Category, 0), s.Level)
	}
	if s.Task == "" {
		if s.Subtask != "" {
			return fmt.Errorf("%w: subtask selected without a task", common.ErrorValidation)
		}
		return nil
	}
	task := findNode(level.Children, s.Task)
	if task == nil {
		return fmt.Errorf("%w: unknown %s %q", common.ErrorValidation, mustLabel(target.Category, 1), s.Task)
	}
	if s.Subtask == "" {
		return nil
	}
	if findNode(task.Children, s.Subtask) == nil {
		return fmt.Errorf("%w: unknown %s %q", common.ErrorValidation, mustLabel(target.Category, 2), s.Subtask)
	}
	return nil
}

func findNode(nodes []models.BreakdownNode, name string) *models.BreakdownNode {
	for i := range nodes {
		if nodes[i].Name == name {
			return &nodes[i]
		}
	}
	return nil
}

func mustLabel(category string, depth int) string {
	s, ok := schemas[category]
	if !ok {
		return "node"
	}
	switch depth {
	case 0:
		return s.LevelLabel
	case 1:
		return s.TaskLabel
	default:
		return s.SubtaskLabel
	}
}
