package game

import "github.com/cybersim/horacero/internal/horacero"

// Action is the closed set of inputs the reducer understands. The
// reducer is total: an action it does not recognize leaves the state
// unchanged.
type Action interface {
	isAction()
}

// InitializeFromSession derives the player list from a session's
// joined roster, assigns roles and avatars by independent random
// bijections, and opens the simulation at hour 0.
type InitializeFromSession struct {
	Session horacero.GameSession
}

// FetchDilemmaStart re-marks the loading phase while a dilemma request
// is in flight.
type FetchDilemmaStart struct{}

// FetchDilemmaSuccess delivers the dilemma for the acting player.
type FetchDilemmaSuccess struct {
	Dilemma horacero.Dilemma
}

// FetchDilemmaFailure ends the simulation. Providers absorb their own
// failures, so this fires only when one violates that contract.
type FetchDilemmaFailure struct {
	Reason string
}

// MakeDecisionStart records the acting player's choice and hands the
// turn to evaluation. Only valid from the playing phase with an active
// dilemma; the caller enforces that precondition.
type MakeDecisionStart struct {
	ChoiceText string
	RoleTitle  string
}

// EvaluateDecisionSuccess folds the evaluation into scores, rotates
// players, advances the clock on round boundaries, and either queues
// the next dilemma or finishes the game.
type EvaluateDecisionSuccess struct {
	Narrative string
	Delta     horacero.ScoreDelta
}

// EvaluateDecisionFailure ends the simulation; same safety-net
// rationale as FetchDilemmaFailure.
type EvaluateDecisionFailure struct {
	Reason string
}

// ClearSpeech drops a player's transient utterance.
type ClearSpeech struct {
	PlayerIndex int
}

// GameOver forces the finished phase; the explicit manual termination
// path.
type GameOver struct{}

func (InitializeFromSession) isAction()   {}
func (FetchDilemmaStart) isAction()       {}
func (FetchDilemmaSuccess) isAction()     {}
func (FetchDilemmaFailure) isAction()     {}
func (MakeDecisionStart) isAction()       {}
func (EvaluateDecisionSuccess) isAction() {}
func (EvaluateDecisionFailure) isAction() {}
func (ClearSpeech) isAction()             {}
func (GameOver) isAction()                {}
