package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/hierarchy"
	"github.com/hourkeep/hourkeep/internal/server/models"
)

func TestCatalogService_CreateTarget(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	svc := NewCatalogService(db, rm)
	manager := Actor{ID: "m1", Role: models.RoleManager}

	created, err := svc.CreateTarget(context.Background(), manager, &models.BillingTarget{
		Category:   hierarchy.CategoryProject,
		Name:       "  Apollo  ",
		IsBillable: true,
	})
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Name != "Apollo" {
		t.Errorf("name = %q, want trimmed", created.Name)
	}

	// duplicate category+name
	_, err = svc.CreateTarget(context.Background(), manager, &models.BillingTarget{
		Category: hierarchy.CategoryProject,
		Name:     "Apollo",
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("duplicate err = %v, want ErrorValidation", err)
	}

	// same name under another category is fine
	if _, err := svc.CreateTarget(context.Background(), manager, &models.BillingTarget{
		Category: hierarchy.CategoryProduct,
		Name:     "Apollo",
	}); err != nil {
		t.Fatalf("cross-category create: %v", err)
	}
}

func TestCatalogService_CreateTarget_Gates(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	svc := NewCatalogService(db, newFakeRepoManager())

	_, err := svc.CreateTarget(context.Background(), Actor{ID: "u1", Role: models.RoleEmployee}, &models.BillingTarget{
		Category: hierarchy.CategoryProject, Name: "Apollo",
	})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("err = %v, want ErrorForbidden", err)
	}

	_, err = svc.CreateTarget(context.Background(), Actor{ID: "m1", Role: models.RoleManager}, &models.BillingTarget{
		Category: "cost-center", Name: "Apollo",
	})
	if !errors.Is(err, common.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestCatalogService_ListTargets_CategoryFilter(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.targets.targets = []*models.BillingTarget{
		{ID: "t1", Category: hierarchy.CategoryProject, Name: "Apollo"},
		{ID: "t2", Category: hierarchy.CategoryDepartment, Name: "IT"},
	}
	svc := NewCatalogService(db, rm)
	manager := Actor{ID: "m1", Role: models.RoleManager}

	all, err := svc.ListTargets(context.Background(), manager, "")
	if err != nil {
		t.Fatalf("ListTargets: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	projects, err := svc.ListTargets(context.Background(), manager, hierarchy.CategoryProject)
	if err != nil {
		t.Fatalf("ListTargets(project): %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "t1" {
		t.Errorf("projects = %d", len(projects))
	}

	if _, err := svc.ListTargets(context.Background(), manager, "nope"); !errors.Is(err, common.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestCatalogService_CreateTeam(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	svc := NewCatalogService(db, rm)
	manager := Actor{ID: "m1", Role: models.RoleManager}

	created, err := svc.CreateTeam(context.Background(), manager, &models.Team{
		Name:                "Platform",
		MemberIDs:           []string{"u1", "u2"},
		AssociatedTargetIDs: []string{"t1"},
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}

	_, err = svc.CreateTeam(context.Background(), Actor{ID: "u1", Role: models.RoleEmployee}, &models.Team{Name: "Shadow"})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("err = %v, want ErrorForbidden", err)
	}
}
