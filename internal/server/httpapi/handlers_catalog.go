package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	s.listTargets(w, r, actor, r.URL.Query().Get("category"))
}

// listTargets serves both the unified endpoint and the legacy per-category
// aliases. Employees get the targets their teams associate them with;
// approving roles get the whole catalog.
func (s *Server) listTargets(w http.ResponseWriter, r *http.Request, actor services.Actor, category string) {
	var (
		list []*models.BillingTarget
		err  error
	)
	if actor.Role.CanApprove() {
		list, err = s.catalog.ListTargets(r.Context(), actor, category)
	} else {
		list, err = s.resolver.AssociatedTargets(r.Context(), actor.ID, category)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targetsToDTO(list))
}

func (s *Server) handleCreateTarget(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var dto targetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := s.catalog.CreateTarget(r.Context(), actor, &models.BillingTarget{
		Category:    dto.Category,
		Name:        dto.Name,
		Description: dto.Description,
		IsBillable:  dto.IsBillable,
		Breakdown:   dto.Breakdown,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, targetToDTO(created))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	list, err := s.catalog.ListTeams(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]teamDTO, 0, len(list))
	for _, t := range list {
		out = append(out, teamToDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var dto teamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := s.catalog.CreateTeam(r.Context(), actor, &models.Team{
		Name:                dto.Name,
		MemberIDs:           dto.MemberIDs,
		AssociatedTargetIDs: dto.AssociatedTargetIDs,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, teamToDTO(created))
}

func (s *Server) handleTeamSummary(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	q := r.URL.Query()
	summary, err := s.reports.SummarizeTeam(r.Context(), actor, r.PathValue("id"), q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	list, err := s.users.List(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]userDTO, 0, len(list))
	for _, u := range list {
		out = append(out, userToDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUserTargets lets a manager inspect what another user may log
// against; users may always ask about themselves.
func (s *Server) handleUserTargets(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	userID := r.PathValue("id")
	if userID != actor.ID && !actor.Role.CanApprove() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	list, err := s.resolver.AssociatedTargets(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targetsToDTO(list))
}
