package provider

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cybersim/horacero/internal/horacero"
)

//go:embed dilemmas.json
var dilemmasJSON []byte

// Dataset serves dilemmas from the embedded bank and evaluates every
// decision neutrally. This is the offline mode of the original game:
// no network, no API key, still a full playable loop.
type Dataset struct {
	dilemmas []DilemmaResponse

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDataset loads the embedded dilemma bank. rng drives the uniform
// pick; inject a seeded source in tests for determinism.
func NewDataset(rng *rand.Rand) (*Dataset, error) {
	var dilemmas []DilemmaResponse
	if err := json.Unmarshal(dilemmasJSON, &dilemmas); err != nil {
		return nil, fmt.Errorf("parsing embedded dilemmas: %w", err)
	}
	if len(dilemmas) == 0 {
		return nil, fmt.Errorf("embedded dilemma bank is empty")
	}
	return &Dataset{dilemmas: dilemmas, rng: rng}, nil
}

func (d *Dataset) GenerateDilemma(_ context.Context, _ horacero.Role, _ horacero.GameState) (DilemmaResponse, error) {
	d.mu.Lock()
	idx := d.rng.Intn(len(d.dilemmas))
	d.mu.Unlock()
	return d.dilemmas[idx], nil
}

func (d *Dataset) EvaluateDecision(_ context.Context, _ horacero.Role, _ string, _ horacero.GameState) (EvaluationResponse, error) {
	return NeutralEvaluation(), nil
}

var _ Provider = (*Dataset)(nil)
