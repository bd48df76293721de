package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/hourkeep/hourkeep/internal/common"
	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
)

// ResolverService answers "which billing targets may this user log time
// against". Membership is resolved through teams: the selectable set is
// the union of associated target ids across every team containing the
// user, matched by id, never by name.
type ResolverService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewResolverService(db *sql.DB, rm repomanager.RepositoryManager) *ResolverService {
	return &ResolverService{db: db, repomanager: rm}
}

// AssociatedTargets returns the targets the user may select, optionally
// filtered to one category. A user in no teams gets an empty slice, not
// an error. Results are ordered by name for stable listings.
func (s *ResolverService) AssociatedTargets(ctx context.Context, userID string, category string) ([]*models.BillingTarget, error) {
	memberships, err := s.repomanager.Teams(s.db).ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, team := range memberships {
		for _, id := range team.AssociatedTargetIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []*models.BillingTarget{}, nil
	}

	all, err := s.repomanager.Targets(s.db).ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := all[:0]
	for _, t := range all {
		if category == "" || t.Category == category {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// AssociatedTargetIDs returns just the id set, used by reporting to scope
// a team summary and by the entry store for membership checks.
func (s *ResolverService) AssociatedTargetIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	memberships, err := s.repomanager.Teams(s.db).ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	for _, team := range memberships {
		for _, id := range team.AssociatedTargetIDs {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// DetermineIsBillable looks up a target by category and name and reports
// its billable flag. A missing target means not billable, not an error:
// entries against retired targets still save, they just do not bill.
func (s *ResolverService) DetermineIsBillable(ctx context.Context, category, name string) (bool, error) {
	target, err := s.repomanager.Targets(s.db).GetByCategoryAndName(ctx, category, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return target.IsBillable, nil
}
