// Package provider supplies dilemmas and decision evaluations to the
// game loop. Implementations are interchangeable and selected once at
// process start: a generative-AI backend, a static dataset, or a
// deterministic stub.
//
// Every implementation shipped here honors the total-fallback
// contract: it never returns a non-nil error. Internal failures
// (network, HTTP status, malformed payload) are logged and replaced
// by FallbackDilemma/NeutralEvaluation so the simulation never stalls
// on an external dependency. The error return exists so the game loop
// can treat an implementation that breaks the contract as a terminal
// failure.
package provider

import (
	"context"

	"github.com/cybersim/horacero/internal/horacero"
)

// DilemmaResponse is the provider's answer to a dilemma request.
type DilemmaResponse struct {
	Description string            `json:"dilemmaDescription"`
	Choices     []horacero.Choice `json:"choices"`
}

// EvaluationResponse is the provider's verdict on a chosen response.
type EvaluationResponse struct {
	Narrative    string              `json:"narrative"`
	ScoreUpdates horacero.ScoreDelta `json:"scoreUpdates"`
}

type Provider interface {
	GenerateDilemma(ctx context.Context, role horacero.Role, state horacero.GameState) (DilemmaResponse, error)
	EvaluateDecision(ctx context.Context, role horacero.Role, choiceText string, state horacero.GameState) (EvaluationResponse, error)
}

// FallbackDilemma is the role-agnostic placeholder served when a
// provider cannot produce real content.
func FallbackDilemma() DilemmaResponse {
	return DilemmaResponse{
		Description: "Simulación: ¿Cómo debe responder tu rol ante la amenaza?",
		Choices: []horacero.Choice{
			{ID: "A", Text: "Opción simulada A"},
			{ID: "B", Text: "Opción simulada B"},
			{ID: "C", Text: "Opción simulada C"},
		},
	}
}

// NeutralEvaluation is the zero-impact verdict served when a provider
// cannot evaluate a decision.
func NeutralEvaluation() EvaluationResponse {
	return EvaluationResponse{
		Narrative: "Simulación: Decisión evaluada correctamente.",
	}
}
