package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cybersim/horacero/internal/game"
	"github.com/cybersim/horacero/internal/horacero"
)

// AdminCreateSessionRequest is the request body for POST /api/admin/sessions.
type AdminCreateSessionRequest struct {
	InvitedEmails []string `json:"invitedEmails"`
}

func handleAdminListSessions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := store.ListSessions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if sessions == nil {
			sessions = []horacero.GameSession{}
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func handleAdminCreateSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminCreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		emails := make([]string, 0, len(req.InvitedEmails))
		seen := map[string]bool{}
		for _, email := range req.InvitedEmails {
			email = strings.TrimSpace(strings.ToLower(email))
			if email == "" || seen[email] {
				continue
			}
			seen[email] = true
			emails = append(emails, email)
		}
		if len(emails) < 2 {
			writeError(w, http.StatusBadRequest, "at least two distinct invited emails are required")
			return
		}

		sess, err := store.CreateSession(r.Context(), emails)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func handleAdminGetSession(store Store) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, sess)
	}
}

// handleAdminStartSession flips the session to in_progress and spawns
// its runner, which assigns roles and fetches the first dilemma. The
// runner outlives the request, so it gets a detached context.
func handleAdminStartSession(store Store, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(chi.URLParam(r, "code"))
		sess, err := store.StartSession(r.Context(), code)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case errors.Is(err, ErrAlreadyStarted):
			writeError(w, http.StatusConflict, "session has already started")
			return
		case errors.Is(err, ErrIncompleteRoster):
			writeError(w, http.StatusConflict, "not every invited player has joined")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		games.Start(context.WithoutCancel(r.Context()), sess)
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleAdminEndSession(games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(chi.URLParam(r, "code"))
		runner, ok := games.Get(code)
		if !ok {
			writeError(w, http.StatusConflict, "game is not running")
			return
		}
		if !runner.Dispatch(game.GameOver{}) {
			writeError(w, http.StatusConflict, "game is not running")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
