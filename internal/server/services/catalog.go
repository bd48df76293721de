package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/hierarchy"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// CatalogService administers billing targets and teams. Mutations are
// manager/owner territory; employees reach targets through the resolver,
// scoped by team membership.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, rm repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: rm}
}

// CreateTarget registers a billing target under one of the known
// categories. Duplicate category+name pairs are rejected so the legacy
// name-based lookup stays unambiguous.
func (s *CatalogService) CreateTarget(ctx context.Context, actor Actor, t *models.BillingTarget) (*models.BillingTarget, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: target name is required", common.ErrorValidation)
	}
	if !hierarchy.Known(t.Category) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownCategory, t.Category)
	}

	if _, err := s.repomanager.Targets(s.db).GetByCategoryAndName(ctx, t.Category, t.Name); err == nil {
		return nil, fmt.Errorf("%w: %s %q already exists", common.ErrorValidation, t.Category, t.Name)
	}

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	if err := s.repomanager.Targets(s.db).Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating target: %w", err)
	}
	return t, nil
}

// ListTargets returns the full catalog, optionally filtered by category.
// Approving roles only; employees see their associated subset through
// ResolverService.
func (s *CatalogService) ListTargets(ctx context.Context, actor Actor, category string) ([]*models.BillingTarget, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	if category == "" {
		return s.repomanager.Targets(s.db).List(ctx)
	}
	if !hierarchy.Known(category) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}
	return s.repomanager.Targets(s.db).ListByCategory(ctx, category)
}

// CreateTeam registers a team. Member and target ids are stored as given;
// a dangling target id simply never matches an entry.
func (s *CatalogService) CreateTeam(ctx context.Context, actor Actor, t *models.Team) (*models.Team, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", common.ErrorValidation)
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	if err := s.repomanager.Teams(s.db).Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating team: %w", err)
	}
	return t, nil
}

func (s *CatalogService) ListTeams(ctx context.Context, actor Actor) ([]*models.Team, error) {
	if !actor.Role.CanApprove() {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Teams(s.db).List(ctx)
}
