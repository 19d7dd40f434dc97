package provider

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cybersim/horacero/internal/horacero"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenAIFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewGenAI(srv.URL, "text-bison-001", "test-key", discardLogger())

	d, err := p.GenerateDilemma(context.Background(), horacero.Roles[0], horacero.GameState{})
	if err != nil {
		t.Fatalf("generate: expected absorbed failure, got error %v", err)
	}
	if d.Description == "" || len(d.Choices) != 3 {
		t.Errorf("generate: fallback malformed: %+v", d)
	}

	e, err := p.EvaluateDecision(context.Background(), horacero.Roles[0], "aislar la red", horacero.GameState{})
	if err != nil {
		t.Fatalf("evaluate: expected absorbed failure, got error %v", err)
	}
	if e.Narrative == "" {
		t.Error("evaluate: expected a neutral narrative")
	}
	if e.ScoreUpdates != (horacero.ScoreDelta{}) {
		t.Errorf("evaluate: expected zero deltas, got %+v", e.ScoreUpdates)
	}
}

func TestGenAIFallsBackOnMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"output":"not json at all"}]}`))
	}))
	defer srv.Close()

	p := NewGenAI(srv.URL, "text-bison-001", "test-key", discardLogger())

	d, err := p.GenerateDilemma(context.Background(), horacero.Roles[1], horacero.GameState{})
	if err != nil {
		t.Fatalf("expected absorbed failure, got error %v", err)
	}
	if d.Description != FallbackDilemma().Description {
		t.Errorf("expected fallback dilemma, got %+v", d)
	}
}

func TestGenAIFallsBackOnUnreachableHost(t *testing.T) {
	p := NewGenAI("http://127.0.0.1:1", "text-bison-001", "test-key", discardLogger())

	d, err := p.GenerateDilemma(context.Background(), horacero.Roles[0], horacero.GameState{})
	if err != nil {
		t.Fatalf("expected absorbed failure, got error %v", err)
	}
	if len(d.Choices) != 3 {
		t.Errorf("expected 3 fallback choices, got %d", len(d.Choices))
	}
}

func TestGenAIParsesWellFormedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"output":"{\"dilemmaDescription\":\"Los servidores están cifrados.\",\"choices\":[{\"id\":\"A\",\"text\":\"Aislar\"},{\"id\":\"B\",\"text\":\"Esperar\"},{\"id\":\"C\",\"text\":\"Negociar\"}]}"}]}`))
	}))
	defer srv.Close()

	p := NewGenAI(srv.URL, "text-bison-001", "test-key", discardLogger())

	d, err := p.GenerateDilemma(context.Background(), horacero.Roles[0], horacero.GameState{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Description != "Los servidores están cifrados." {
		t.Errorf("unexpected description %q", d.Description)
	}
	if len(d.Choices) != 3 || d.Choices[2].ID != "C" {
		t.Errorf("unexpected choices %+v", d.Choices)
	}
}

func TestDatasetServesWellFormedDilemmas(t *testing.T) {
	p, err := NewDataset(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}

	for i := 0; i < 20; i++ {
		d, err := p.GenerateDilemma(context.Background(), horacero.Roles[i%len(horacero.Roles)], horacero.GameState{})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if d.Description == "" {
			t.Fatal("empty dilemma description")
		}
		if len(d.Choices) != 3 {
			t.Fatalf("expected 3 choices, got %d", len(d.Choices))
		}
	}

	e, err := p.EvaluateDecision(context.Background(), horacero.Roles[0], "cualquier cosa", horacero.GameState{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if e.ScoreUpdates != (horacero.ScoreDelta{}) {
		t.Errorf("dataset evaluation should be neutral, got %+v", e.ScoreUpdates)
	}
}
