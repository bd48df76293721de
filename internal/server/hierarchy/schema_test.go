package hierarchy

import (
	"errors"
	"testing"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget() *models.BillingTarget {
	return &models.BillingTarget{
		ID:       "t1",
		Category: CategoryProject,
		Name:     "Website Relaunch",
		Breakdown: []models.BreakdownNode{
			{Name: "Phase 1", Children: []models.BreakdownNode{
				{Name: "Design", Children: []models.BreakdownNode{
					{Name: "Wireframes"},
				}},
				{Name: "Build"},
			}},
			{Name: "Phase 2"},
		},
	}
}

func TestFor_KnownCategories(t *testing.T) {
	for _, cat := range []string{CategoryProject, CategoryProduct, CategoryDepartment} {
		s, err := For(cat)
		require.NoError(t, err)
		assert.Equal(t, cat, s.Category)
		assert.NotEmpty(t, s.LevelLabel)
		assert.NotEmpty(t, s.TaskLabel)
		assert.NotEmpty(t, s.SubtaskLabel)
	}
}

func TestFor_UnknownCategory(t *testing.T) {
	_, err := For("client")
	assert.True(t, errors.Is(err, common.ErrUnknownCategory))
	assert.False(t, Known("client"))
}

func TestSelection_Validate(t *testing.T) {
	target := testTarget()

	tests := []struct {
		name     string
		sel      Selection
		wantErr  bool
	}{
		{"empty selection ok", Selection{}, false},
		{"level only", Selection{Level: "Phase 1"}, false},
		{"full path", Selection{Level: "Phase 1", Task: "Design", Subtask: "Wireframes"}, false},
		{"level and task", Selection{Level: "Phase 1", Task: "Build"}, false},
		{"unknown level", Selection{Level: "Phase 9"}, true},
		{"unknown task", Selection{Level: "Phase 1", Task: "QA"}, true},
		{"unknown subtask", Selection{Level: "Phase 1", Task: "Design", Subtask: "Mockups"}, true},
		{"task without level", Selection{Task: "Design"}, true},
		{"subtask without task", Selection{Level: "Phase 1", Subtask: "Wireframes"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sel.Validate(target)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrorValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
