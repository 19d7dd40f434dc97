package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cybersim/horacero/internal/horacero"
)

// JoinedPlayer is one roster entry in the lobby view.
type JoinedPlayer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// SessionView is the player-facing lobby projection of a session.
// Clients poll it until the session starts; PollIntervalMs tells them
// how often.
type SessionView struct {
	ID                  string         `json:"id"`
	Status              string         `json:"status"`
	InvitedPlayerEmails []string       `json:"invitedPlayerEmails"`
	Players             []JoinedPlayer `json:"players"`
	PollIntervalMs      int            `json:"pollIntervalMs"`
}

// JoinRequest is the request body for POST /api/sessions/{code}/join.
type JoinRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func sessionView(sess horacero.GameSession, pollMs int) SessionView {
	players := make([]JoinedPlayer, 0, len(sess.PlayerDetails))
	for _, p := range sess.PlayerDetails {
		players = append(players, JoinedPlayer{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
		})
	}
	return SessionView{
		ID:                  sess.Code,
		Status:              string(sess.Status),
		InvitedPlayerEmails: sess.InvitedEmails,
		Players:             players,
		PollIntervalMs:      pollMs,
	}
}

func handleSessionLookup(store Store, pollMs int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(chi.URLParam(r, "code"))
		sess, err := store.GetSession(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sessionView(sess, pollMs))
	}
}

func handleJoinSession(store Store, pollMs int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		if req.Email == "" || req.FirstName == "" || req.LastName == "" {
			writeError(w, http.StatusBadRequest, "email, firstName and lastName are required")
			return
		}

		code := normalizeCode(chi.URLParam(r, "code"))
		sess, err := store.JoinSession(r.Context(), code, horacero.PlayerDetails{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, ErrAlreadyStarted):
			writeError(w, http.StatusConflict, "session has already started")
		case errors.Is(err, ErrNotInvited):
			writeError(w, http.StatusForbidden, "email is not invited to this session")
		case errors.Is(err, ErrAlreadyJoined):
			writeError(w, http.StatusConflict, "email already joined this session")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, sessionView(sess, pollMs))
		}
	}
}

// Access codes are shown to players in uppercase; accept any casing.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
