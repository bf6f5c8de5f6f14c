package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-calendar-client/users"
)

// ListUsersHandler lists every account. The client uses it for its
// email and username availability checks.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List()
		if err != nil {
			s.log.Err(err).Msg("Failed to list users")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// PatchUserHandler updates the isActive flag. Users may only patch themselves.
func (s *Server) PatchUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id != userIDFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "Cannot modify another user")
			return
		}

		var body users.Activation
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := s.repos.Users.SetActive(id, body.IsActive)
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		if err != nil {
			s.log.Err(err).Str("user_id", id).Msg("Failed to update user")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
