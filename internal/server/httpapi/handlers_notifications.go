package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hourkeep/hourkeep/internal/server/services"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	list, err := s.notify.List(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	unread, err := s.notify.CountUnread(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	items := make([]notificationDTO, 0, len(list))
	for _, n := range list {
		items = append(items, notificationToDTO(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"unread":        unread,
	})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	if err := s.notify.MarkRead(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type remindRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var req remindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := s.notify.Remind(r.Context(), actor, req.UserID, req.Message); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
