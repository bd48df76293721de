package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hourkeep/hourkeep/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the details go to the log,
// not the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrEmptyMessage),
		errors.Is(err, common.ErrUnknownCategory),
		errors.Is(err, common.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrEntryNotPending):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
