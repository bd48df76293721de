package httpapi

import (
	"net/http"
	"strings"

	"github.com/hourkeep/hourkeep/internal/server/auth"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, actor services.Actor)

// requireAuth parses the bearer token, resolves the account, and passes an
// Actor to the handler. The role comes from the stored user record, not the
// token claim, so a role change takes effect without re-login.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, _, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.users.Get(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		next(w, r, services.Actor{ID: user.ID, Name: user.Name, Role: user.Role})
	}
}

// categoryAlias serves the old per-category listing endpoints through the
// unified target listing.
func (s *Server) categoryAlias(category string) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, actor services.Actor) {
		s.listTargets(w, r, actor, category)
	}
}
