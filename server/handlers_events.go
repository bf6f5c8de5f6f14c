package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-calendar-client/events"
)

// ListEventsHandler lists the caller's events. Optional id and userId query
// parameters filter the list; the answer is always an array.
func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r.Context())
		query := r.URL.Query()

		if filter := query.Get("userId"); filter != "" && filter != userID {
			writeJSON(w, http.StatusOK, []*events.Event{})
			return
		}

		list, err := s.repos.Events.List(userID)
		if err != nil {
			s.log.Err(err).Msg("Failed to list events")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		if raw := query.Get("id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid id")
				return
			}
			filtered := make([]*events.Event, 0, 1)
			for _, e := range list {
				if e.ID == id {
					filtered = append(filtered, e)
				}
			}
			list = filtered
		}

		if claims := claimsFromContext(r.Context()); claims != nil {
			s.log.Debug().Str("email", claims.Email).Int("count", len(list)).Msg("Listed events")
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r.Context())

		var e events.Event
		if err := decodeJSON(r, &e); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if e.UserID == "" {
			e.UserID = userID
		}
		if e.UserID != userID {
			writeError(w, http.StatusForbidden, "Cannot create events for another user")
			return
		}
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.repos.Events.Create(&e); err != nil {
			s.log.Err(err).Msg("Failed to create event")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		s.log.Info().Object("event", &e).Msg("Event created")
		writeJSON(w, http.StatusCreated, &e)
	}
}

func (s *Server) UpdateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := s.ownedEvent(w, r)
		if !ok {
			return
		}

		var e events.Event
		if err := decodeJSON(r, &e); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e.ID = existing.ID
		e.UserID = existing.UserID
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.repos.Events.Update(&e); err != nil {
			s.log.Err(err).Int64("event_id", e.ID).Msg("Failed to update event")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, &e)
	}
}

func (s *Server) DeleteEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := s.ownedEvent(w, r)
		if !ok {
			return
		}

		if err := s.repos.Events.Delete(existing.ID); err != nil {
			s.log.Err(err).Int64("event_id", existing.ID).Msg("Failed to delete event")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

// ownedEvent loads the event named by the id query parameter. Events of other
// users read as missing.
func (s *Server) ownedEvent(w http.ResponseWriter, r *http.Request) (*events.Event, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return nil, false
	}

	e, err := s.repos.Events.Get(id)
	if errors.Is(err, events.ErrEventNotFound) || (err == nil && e.UserID != userIDFromContext(r.Context())) {
		writeError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	if err != nil {
		s.log.Err(err).Int64("event_id", id).Msg("Failed to load event")
		writeError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}
	return e, true
}
