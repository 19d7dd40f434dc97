package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybersim/horacero/internal/game"
	"github.com/cybersim/horacero/internal/horacero"
)

// DecisionRequest is the request body for POST /api/sessions/{code}/decision.
type DecisionRequest struct {
	ChoiceID string `json:"choiceId"`
}

// DecisionResponse acknowledges an accepted decision. Evaluation is
// asynchronous; clients observe the outcome through the state poll.
type DecisionResponse struct {
	Status string `json:"status"`
}

// handleGameState serves the live snapshot from the runner when the
// game is being driven, and falls back to the persisted snapshot so
// players rejoining a finished or restarted session still see the
// board.
func handleGameState(store Store, games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(chi.URLParam(r, "code"))

		if runner, ok := games.Get(code); ok {
			writeJSON(w, http.StatusOK, runner.Snapshot())
			return
		}

		sess, err := store.GetSession(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if sess.GameState == nil {
			writeError(w, http.StatusNotFound, "session has no game state yet")
			return
		}
		writeJSON(w, http.StatusOK, sess.GameState)
	}
}

func handleDecision(games *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DecisionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ChoiceID == "" {
			writeError(w, http.StatusBadRequest, "choiceId is required")
			return
		}

		code := normalizeCode(chi.URLParam(r, "code"))
		runner, ok := games.Get(code)
		if !ok {
			writeError(w, http.StatusConflict, "game is not running")
			return
		}

		snapshot := runner.Snapshot()
		if snapshot.Phase != horacero.PhasePlaying || snapshot.ActiveDilemma == nil {
			writeError(w, http.StatusConflict, "no decision is expected right now")
			return
		}

		var choice *horacero.Choice
		for i := range snapshot.ActiveDilemma.Choices {
			if snapshot.ActiveDilemma.Choices[i].ID == req.ChoiceID {
				choice = &snapshot.ActiveDilemma.Choices[i]
				break
			}
		}
		if choice == nil {
			writeError(w, http.StatusBadRequest, "unknown choiceId")
			return
		}

		if !runner.Dispatch(game.MakeDecisionStart{
			ChoiceText: choice.Text,
			RoleTitle:  snapshot.ActiveDilemma.Role.Title,
		}) {
			writeError(w, http.StatusConflict, "game is not running")
			return
		}
		writeJSON(w, http.StatusAccepted, DecisionResponse{Status: "accepted"})
	}
}
