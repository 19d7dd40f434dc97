package game

import (
	"math/rand"
	"testing"

	"github.com/cybersim/horacero/internal/horacero"
)

func testSession(n int) horacero.GameSession {
	s := horacero.GameSession{
		Code:   "ABC123",
		Status: horacero.StatusInProgress,
	}
	names := []string{"Maria", "Carlos", "Ana", "Jorge", "Lucia", "Pedro"}
	for i := 0; i < n; i++ {
		s.InvitedEmails = append(s.InvitedEmails, names[i]+"@empresa.com")
		s.PlayerDetails = append(s.PlayerDetails, horacero.PlayerDetails{
			Email:     names[i] + "@empresa.com",
			FirstName: names[i],
			LastName:  "Diaz",
		})
	}
	return s
}

func initialized(t *testing.T, r *Reducer, n int) horacero.GameState {
	t.Helper()
	state := r.Apply(horacero.GameState{}, InitializeFromSession{Session: testSession(n)})
	if state.Phase != horacero.PhaseLoadingDilemma {
		t.Fatalf("expected loading_dilemma after init, got %q", state.Phase)
	}
	return state
}

// playTurn runs one dilemma/decision/evaluation cycle.
func playTurn(r *Reducer, s horacero.GameState) horacero.GameState {
	acting := s.Players[s.CurrentPlayerIndex]
	s = r.Apply(s, FetchDilemmaSuccess{Dilemma: horacero.Dilemma{
		Role:        acting.Role,
		Description: "Un dilema",
		Choices:     []horacero.Choice{{ID: "A", Text: "Aislar la red"}},
	}})
	s = r.Apply(s, MakeDecisionStart{ChoiceText: "Aislar la red", RoleTitle: acting.Role.Title})
	s = r.Apply(s, EvaluateDecisionSuccess{Narrative: "La contención avanza.", Delta: horacero.ScoreDelta{Financial: -2}})
	return s
}

func TestInitializeFromSession(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(1)))
	state := initialized(t, r, 2)

	if state.SessionID != "ABC123" {
		t.Errorf("expected session id ABC123, got %q", state.SessionID)
	}
	if state.CurrentHour != 0 {
		t.Errorf("expected hour 0, got %d", state.CurrentHour)
	}
	if state.Scores != horacero.StartingScore() {
		t.Errorf("expected starting scores, got %+v", state.Scores)
	}
	if len(state.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(state.Players))
	}
	if state.Players[0].Role.ID == state.Players[1].Role.ID {
		t.Error("expected distinct roles")
	}
	if state.Players[0].AvatarID == state.Players[1].AvatarID {
		t.Error("expected distinct avatars")
	}
	if !state.Players[0].IsActing || state.Players[1].IsActing {
		t.Error("expected exactly player 0 acting")
	}
	if len(state.EventLog) != 1 || state.EventLog[0].Kind != horacero.EventStart {
		t.Errorf("expected a single start entry, got %+v", state.EventLog)
	}
}

func TestInitializeWithoutRosterIsNoOp(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(1)))
	before := horacero.GameState{Phase: horacero.PhaseSetup}
	after := r.Apply(before, InitializeFromSession{Session: horacero.GameSession{Code: "X"}})
	if after.Phase != horacero.PhaseSetup || len(after.Players) != 0 {
		t.Errorf("expected unchanged state, got %+v", after)
	}
}

func TestUnknownActionLeavesStateUnchanged(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(1)))
	state := initialized(t, r, 2)
	if got := r.Apply(state, nil); got.Phase != state.Phase || len(got.EventLog) != len(state.EventLog) {
		t.Errorf("nil action changed state")
	}
}

func TestDecisionAppendsTaggedEntry(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(2)))
	state := initialized(t, r, 2)
	acting := state.Players[0]

	state = r.Apply(state, FetchDilemmaSuccess{Dilemma: horacero.Dilemma{Role: acting.Role, Description: "d", Choices: []horacero.Choice{{ID: "A", Text: "x"}}}})
	state = r.Apply(state, MakeDecisionStart{ChoiceText: "Pagar el rescate", RoleTitle: acting.Role.Title})

	if state.Phase != horacero.PhaseEvaluatingDecision {
		t.Fatalf("expected evaluating_decision, got %q", state.Phase)
	}
	last := state.EventLog[len(state.EventLog)-1]
	if last.Kind != horacero.EventDecision {
		t.Fatalf("expected decision entry, got %q", last.Kind)
	}
	if last.RoleTitle != acting.Role.Title {
		t.Errorf("expected role title %q, got %q", acting.Role.Title, last.RoleTitle)
	}
	if last.Message != "Pagar el rescate" {
		t.Errorf("expected choice text, got %q", last.Message)
	}
}

func TestPlayerRotationAndRoundAdvance(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(3)))
	state := initialized(t, r, 2)

	// First decision: mid-round, no hour advance.
	state = playTurn(r, state)
	if state.CurrentPlayerIndex != 1 {
		t.Fatalf("expected player 1 acting, got %d", state.CurrentPlayerIndex)
	}
	if state.CurrentHour != 0 {
		t.Errorf("expected hour unchanged mid-round, got %d", state.CurrentHour)
	}
	if !state.Players[1].IsActing || state.Players[0].IsActing {
		t.Error("turn flag should follow the rotation")
	}
	if state.Players[0].Speech != "Aislar la red" {
		t.Errorf("expected speech on the player who acted, got %q", state.Players[0].Speech)
	}

	// Second decision: wraps to 0, round completes, hour advances 1..3.
	state = playTurn(r, state)
	if state.CurrentPlayerIndex != 0 {
		t.Fatalf("expected wrap to player 0, got %d", state.CurrentPlayerIndex)
	}
	if state.CurrentHour < 1 || state.CurrentHour > 3 {
		t.Errorf("expected hour in [1,3] after one round, got %d", state.CurrentHour)
	}

	// Log order: start, decision, consequence, decision, consequence, round.
	kinds := make([]horacero.EventKind, len(state.EventLog))
	for i, e := range state.EventLog {
		kinds[i] = e.Kind
	}
	want := []horacero.EventKind{
		horacero.EventStart,
		horacero.EventDecision, horacero.EventConsequence,
		horacero.EventDecision, horacero.EventConsequence,
		horacero.EventRound,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], kinds[i])
		}
	}
}

func TestScoresFoldAndClampAcrossTurns(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(4)))
	state := initialized(t, r, 2)
	acting := state.Players[0]

	state = r.Apply(state, FetchDilemmaSuccess{Dilemma: horacero.Dilemma{Role: acting.Role, Description: "d", Choices: []horacero.Choice{{ID: "A", Text: "x"}}}})
	state = r.Apply(state, MakeDecisionStart{ChoiceText: "x", RoleTitle: acting.Role.Title})
	state = r.Apply(state, EvaluateDecisionSuccess{
		Narrative: "n",
		Delta:     horacero.ScoreDelta{Financial: -100, Reputation: 50, Operational: -10, DataIntegrity: 0},
	})

	if state.Scores.Financial != 0 {
		t.Errorf("financial: expected clamp to 0, got %d", state.Scores.Financial)
	}
	if state.Scores.Reputation != 100 {
		t.Errorf("reputation: expected clamp to 100, got %d", state.Scores.Reputation)
	}
	if state.Scores.Operational != 85 {
		t.Errorf("operational: expected 85, got %d", state.Scores.Operational)
	}
	if state.Scores.DataIntegrity != 90 {
		t.Errorf("dataIntegrity: expected 90, got %d", state.Scores.DataIntegrity)
	}
}

func TestHourMonotonicityAndTermination(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(5)))
	state := initialized(t, r, 3)

	prevHour := 0
	for turns := 0; state.Phase != horacero.PhaseFinished; turns++ {
		if turns > 200 {
			t.Fatal("game did not terminate within 200 turns")
		}
		state = playTurn(r, state)
		if state.CurrentHour < prevHour {
			t.Fatalf("hour went backwards: %d -> %d", prevHour, state.CurrentHour)
		}
		if state.CurrentHour > horacero.MaxHours {
			t.Fatalf("hour exceeded max: %d", state.CurrentHour)
		}
		prevHour = state.CurrentHour
	}

	last := state.EventLog[len(state.EventLog)-1]
	if last.Kind != horacero.EventInfo || last.Hour != horacero.MaxHours {
		t.Errorf("expected closing info entry at hour %d, got %+v", horacero.MaxHours, last)
	}

	// Exactly one closing info entry.
	closing := 0
	for _, e := range state.EventLog {
		if e.Kind == horacero.EventInfo && e.Hour == horacero.MaxHours {
			closing++
		}
	}
	if closing != 1 {
		t.Errorf("expected exactly one closing entry, got %d", closing)
	}

	// Terminal: further decisions leave the finished phase alone.
	again := r.Apply(state, EvaluateDecisionSuccess{Narrative: "n"})
	if again.Phase != horacero.PhaseFinished {
		t.Errorf("finished phase must be terminal, got %q", again.Phase)
	}
}

func TestRotationCyclesAllPlayers(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(6)))
	state := initialized(t, r, 4)

	for i := 1; i <= 8; i++ {
		state = playTurn(r, state)
		if state.Phase == horacero.PhaseFinished {
			t.Fatal("game finished unexpectedly early")
		}
		want := i % 4
		if state.CurrentPlayerIndex != want {
			t.Fatalf("turn %d: expected player %d, got %d", i, want, state.CurrentPlayerIndex)
		}
		acting := 0
		for _, p := range state.Players {
			if p.IsActing {
				acting++
			}
		}
		if acting != 1 {
			t.Fatalf("turn %d: expected exactly one acting player, got %d", i, acting)
		}
	}
}

func TestFetchFailureEndsGameWithErrorEntry(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(7)))
	state := initialized(t, r, 2)

	state = r.Apply(state, FetchDilemmaFailure{Reason: "contract violation"})
	if state.Phase != horacero.PhaseFinished {
		t.Fatalf("expected finished, got %q", state.Phase)
	}
	last := state.EventLog[len(state.EventLog)-1]
	if last.Kind != horacero.EventError {
		t.Errorf("expected error entry, got %q", last.Kind)
	}
}

func TestDuplicateDecisionIsDropped(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(9)))
	state := initialized(t, r, 2)
	acting := state.Players[0]

	// No dilemma on the table yet: nothing to decide on.
	state = r.Apply(state, MakeDecisionStart{ChoiceText: "x", RoleTitle: acting.Role.Title})
	if state.Phase != horacero.PhaseLoadingDilemma {
		t.Fatalf("expected decision without dilemma to be ignored, got %q", state.Phase)
	}

	state = r.Apply(state, FetchDilemmaSuccess{Dilemma: horacero.Dilemma{Role: acting.Role, Description: "d", Choices: []horacero.Choice{{ID: "A", Text: "x"}}}})
	state = r.Apply(state, MakeDecisionStart{ChoiceText: "x", RoleTitle: acting.Role.Title})
	// A second submission while the first is being evaluated is a no-op.
	state = r.Apply(state, MakeDecisionStart{ChoiceText: "x", RoleTitle: acting.Role.Title})

	decisions := 0
	for _, e := range state.EventLog {
		if e.Kind == horacero.EventDecision {
			decisions++
		}
	}
	if decisions != 1 {
		t.Errorf("expected exactly 1 decision entry, got %d", decisions)
	}
}

func TestFinishedStateIgnoresLateEvaluation(t *testing.T) {
	// The closing entry pins hour 24 but CurrentHour keeps its pre-final
	// value, so without a terminal guard a stray evaluation could roll
	// the clock under 24 and restart the dilemma loop. Exercise many
	// hour trajectories.
	for seed := int64(0); seed < 50; seed++ {
		r := NewReducer(rand.New(rand.NewSource(seed)))
		state := initialized(t, r, 2)
		for turns := 0; state.Phase != horacero.PhaseFinished; turns++ {
			if turns > 200 {
				t.Fatalf("seed %d: game did not terminate", seed)
			}
			state = playTurn(r, state)
		}

		after := r.Apply(state, EvaluateDecisionSuccess{Narrative: "tarde", Delta: horacero.ScoreDelta{Financial: -5}})
		if after.Phase != horacero.PhaseFinished {
			t.Fatalf("seed %d: late evaluation reopened the game, phase %q", seed, after.Phase)
		}
		if len(after.EventLog) != len(state.EventLog) {
			t.Errorf("seed %d: late evaluation appended entries", seed)
		}
		if after.Scores != state.Scores {
			t.Errorf("seed %d: late evaluation moved scores: %+v -> %+v", seed, state.Scores, after.Scores)
		}
	}
}

func TestGameOverAndClearSpeech(t *testing.T) {
	r := NewReducer(rand.New(rand.NewSource(8)))
	state := initialized(t, r, 2)
	state = playTurn(r, state)

	if state.Players[0].Speech == "" {
		t.Fatal("expected a speech bubble to clear")
	}
	state = r.Apply(state, ClearSpeech{PlayerIndex: 0})
	if state.Players[0].Speech != "" {
		t.Errorf("expected cleared speech, got %q", state.Players[0].Speech)
	}

	// Out-of-range index is ignored.
	state = r.Apply(state, ClearSpeech{PlayerIndex: 99})

	state = r.Apply(state, GameOver{})
	if state.Phase != horacero.PhaseFinished {
		t.Fatalf("expected finished after game over, got %q", state.Phase)
	}
	last := state.EventLog[len(state.EventLog)-1]
	if last.Kind != horacero.EventInfo || last.Message != "Simulación terminada." {
		t.Errorf("expected closing info entry, got %+v", last)
	}
}
