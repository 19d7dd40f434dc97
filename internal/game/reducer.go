package game

import (
	"fmt"
	"math/rand"

	"github.com/cybersim/horacero/internal/horacero"
)

// Reducer is the pure transition function of the game state machine.
// All randomness (role/avatar assignment, per-round hour increments)
// comes from the injected rng, so a seeded source makes every
// transition reproducible.
//
// Apply never mutates its input: slices that change are reallocated.
type Reducer struct {
	rng *rand.Rand
}

func NewReducer(rng *rand.Rand) *Reducer {
	return &Reducer{rng: rng}
}

func (r *Reducer) Apply(s horacero.GameState, action Action) horacero.GameState {
	switch a := action.(type) {
	case InitializeFromSession:
		return r.initialize(s, a.Session)

	case FetchDilemmaStart:
		s.Phase = horacero.PhaseLoadingDilemma
		return s

	case FetchDilemmaSuccess:
		s.Phase = horacero.PhasePlaying
		d := a.Dilemma
		s.ActiveDilemma = &d
		return s

	case FetchDilemmaFailure:
		s.Phase = horacero.PhaseFinished
		s.EventLog = appendEntry(s.EventLog, horacero.EventLogEntry{
			Hour:    s.CurrentHour,
			Kind:    horacero.EventError,
			Message: fmt.Sprintf("Error de simulación: %s", a.Reason),
		})
		return s

	case MakeDecisionStart:
		// A decision is only meaningful against the dilemma on the
		// table. Late or duplicate submissions (two players racing,
		// a re-send after evaluation began) are dropped.
		if s.Phase != horacero.PhasePlaying || s.ActiveDilemma == nil {
			return s
		}
		s.Phase = horacero.PhaseEvaluatingDecision
		s.EventLog = appendEntry(s.EventLog, horacero.EventLogEntry{
			Hour:      s.CurrentHour,
			Kind:      horacero.EventDecision,
			Message:   a.ChoiceText,
			RoleTitle: a.RoleTitle,
		})
		return s

	case EvaluateDecisionSuccess:
		return r.evaluate(s, a)

	case EvaluateDecisionFailure:
		s.Phase = horacero.PhaseFinished
		s.EventLog = appendEntry(s.EventLog, horacero.EventLogEntry{
			Hour:    s.CurrentHour,
			Kind:    horacero.EventError,
			Message: fmt.Sprintf("Error de simulación: %s", a.Reason),
		})
		return s

	case ClearSpeech:
		if a.PlayerIndex < 0 || a.PlayerIndex >= len(s.Players) {
			return s
		}
		players := make([]horacero.Player, len(s.Players))
		copy(players, s.Players)
		players[a.PlayerIndex].Speech = ""
		s.Players = players
		return s

	case GameOver:
		s.Phase = horacero.PhaseFinished
		s.EventLog = appendEntry(s.EventLog, horacero.EventLogEntry{
			Hour:    s.CurrentHour,
			Kind:    horacero.EventInfo,
			Message: "Simulación terminada.",
		})
		return s

	default:
		return s
	}
}

// initialize builds the opening state from a session with a complete
// roster. A session without joined players is a guarded precondition,
// not a failure: the state comes back unchanged.
func (r *Reducer) initialize(s horacero.GameState, session horacero.GameSession) horacero.GameState {
	if len(session.PlayerDetails) == 0 {
		return s
	}

	rolePerm := r.rng.Perm(len(horacero.Roles))
	avatarPerm := r.rng.Perm(len(horacero.Avatars))

	players := make([]horacero.Player, len(session.PlayerDetails))
	for i, pd := range session.PlayerDetails {
		players[i] = horacero.Player{
			Index:     i,
			Name:      pd.FirstName + " " + pd.LastName,
			FirstName: pd.FirstName,
			LastName:  pd.LastName,
			Email:     pd.Email,
			Role:      horacero.Roles[rolePerm[i%len(rolePerm)]],
			AvatarID:  horacero.Avatars[avatarPerm[i%len(avatarPerm)]],
			IsActing:  i == 0,
		}
	}

	return horacero.GameState{
		SessionID:          session.Code,
		Phase:              horacero.PhaseLoadingDilemma,
		CurrentHour:        0,
		Scores:             horacero.StartingScore(),
		Players:            players,
		CurrentPlayerIndex: 0,
		EventLog: []horacero.EventLogEntry{{
			Hour:    0,
			Kind:    horacero.EventStart,
			Message: "Simulación iniciada. ¡Se han asignado los roles!",
		}},
	}
}

// evaluate is the per-turn core: apply deltas, rotate players, mint
// hours on round boundaries, and finish the game once the clock hits
// MaxHours. The hour increment is a random draw in [1,3] per round —
// intentional pacing variance, not a fixed tick.
func (r *Reducer) evaluate(s horacero.GameState, a EvaluateDecisionSuccess) horacero.GameState {
	// Finished is terminal: a straggling evaluation result must not
	// reopen the game.
	if s.Phase == horacero.PhaseFinished || len(s.Players) == 0 {
		return s
	}

	newScores := s.Scores.Apply(a.Delta)

	// Recover the chosen text from the latest decision entry for the
	// speech annotation.
	var lastChoice string
	for i := len(s.EventLog) - 1; i >= 0; i-- {
		if s.EventLog[i].Kind == horacero.EventDecision {
			lastChoice = s.EventLog[i].Message
			break
		}
	}

	nextIndex := (s.CurrentPlayerIndex + 1) % len(s.Players)
	newRound := nextIndex == 0

	hour := s.CurrentHour
	if newRound {
		hour += 1 + r.rng.Intn(3)
	}
	if hour > horacero.MaxHours {
		hour = horacero.MaxHours
	}

	players := make([]horacero.Player, len(s.Players))
	copy(players, s.Players)
	for i := range players {
		players[i].IsActing = i == nextIndex
		if i == s.CurrentPlayerIndex {
			players[i].Speech = lastChoice
		}
	}

	log := appendEntry(s.EventLog, horacero.EventLogEntry{
		Hour:    s.CurrentHour,
		Kind:    horacero.EventConsequence,
		Message: a.Narrative,
	})
	if newRound && hour < horacero.MaxHours {
		log = append(log, horacero.EventLogEntry{
			Hour:    hour,
			Kind:    horacero.EventRound,
			Message: "Inicia una nueva ronda de decisiones.",
		})
	}

	if hour >= horacero.MaxHours {
		s.Phase = horacero.PhaseFinished
		s.Scores = newScores
		s.Players = players
		s.EventLog = append(log, horacero.EventLogEntry{
			Hour:    horacero.MaxHours,
			Kind:    horacero.EventInfo,
			Message: "Fin de las 24 horas críticas. Generando informe...",
		})
		return s
	}

	s.Phase = horacero.PhaseLoadingDilemma
	s.Scores = newScores
	s.Players = players
	s.EventLog = log
	s.CurrentHour = hour
	s.CurrentPlayerIndex = nextIndex
	s.ActiveDilemma = nil
	return s
}

// appendEntry copies before appending so prior states never observe
// later log entries through a shared backing array.
func appendEntry(log []horacero.EventLogEntry, e horacero.EventLogEntry) []horacero.EventLogEntry {
	out := make([]horacero.EventLogEntry, len(log), len(log)+1)
	copy(out, log)
	return append(out, e)
}
