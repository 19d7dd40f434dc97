package provider

import (
	"context"

	"github.com/cybersim/horacero/internal/horacero"
)

// Stub returns fixed content on every call. Used in tests and as the
// zero-config default when no other provider is wired.
type Stub struct {
	Dilemma    DilemmaResponse
	Evaluation EvaluationResponse
}

func NewStub() *Stub {
	return &Stub{
		Dilemma:    FallbackDilemma(),
		Evaluation: NeutralEvaluation(),
	}
}

func (s *Stub) GenerateDilemma(_ context.Context, _ horacero.Role, _ horacero.GameState) (DilemmaResponse, error) {
	return s.Dilemma, nil
}

func (s *Stub) EvaluateDecision(_ context.Context, _ horacero.Role, _ string, _ horacero.GameState) (EvaluationResponse, error) {
	return s.Evaluation, nil
}

var _ Provider = (*Stub)(nil)
