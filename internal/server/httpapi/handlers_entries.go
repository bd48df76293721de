package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hourkeep/hourkeep/internal/server/models"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var list []*models.TimeEntry
	var err error
	if status := r.URL.Query().Get("status"); status != "" {
		list, err = s.entries.ListByStatus(r.Context(), actor, models.EntryStatus(status))
	} else {
		list, err = s.entries.List(r.Context(), actor)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesToDTO(list))
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var dto timeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	// PUT carries the id in the path; it wins over the body
	if id := r.PathValue("id"); id != "" {
		dto.ID = id
	}

	saved, err := s.entries.Save(r.Context(), actor, dto.toModel())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, entryToDTO(saved))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	e, err := s.entries.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToDTO(e))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	if err := s.entries.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntriesRange(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	q := r.URL.Query()
	list, err := s.entries.ListRange(r.Context(), actor, q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesToDTO(list))
}

type decisionRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	s.decide(w, r, actor, models.StatusApproved)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	s.decide(w, r, actor, models.StatusRejected)
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request, actor services.Actor, status models.EntryStatus) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	action, err := s.approvals.SetStatus(r.Context(), actor, r.PathValue("id"), status, req.Message)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actionToDTO(action))
}

type bulkApproveRequest struct {
	EntryIDs []string           `json:"entryIds"`
	Status   models.EntryStatus `json:"status"`
	Message  string             `json:"message"`
}

type bulkResultDTO struct {
	EntryID string `json:"entryId"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleBulkApprove(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	var req bulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusApproved
	}

	results := s.approvals.BulkSetStatus(r.Context(), actor, req.EntryIDs, req.Status, req.Message)
	out := make([]bulkResultDTO, 0, len(results))
	for _, res := range results {
		dto := bulkResultDTO{EntryID: res.EntryID}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	// visibility piggybacks on entry read access
	if _, err := s.entries.Get(r.Context(), actor, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	history, err := s.approvals.History(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]approvalActionDTO, 0, len(history))
	for _, a := range history {
		out = append(out, actionToDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	q := r.URL.Query()
	userID := q.Get("user")
	if userID == "" {
		userID = actor.ID
	}

	summary, err := s.reports.SummarizeUser(r.Context(), actor, userID, q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, actor services.Actor) {
	q := r.URL.Query()
	format := services.ExportFormat(q.Get("format"))
	if format == "" {
		format = services.FormatCSV
	}

	res, err := s.exports.Export(r.Context(), actor, q.Get("user"), q.Get("start"), q.Get("end"), format)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	if res.ArchiveURL != "" {
		w.Header().Set("X-Archive-Url", res.ArchiveURL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
