package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cybersim/horacero/internal/horacero"
)

// GenAI talks to a Google generative-language endpoint. Any failure
// along the way — transport, status, candidate extraction, payload
// parsing — falls back to placeholder content; the caller never sees
// an error.
type GenAI struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewGenAI(baseURL, model, apiKey string, logger *slog.Logger) *GenAI {
	return &GenAI{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type genAIRequest struct {
	Prompt struct {
		Text string `json:"text"`
	} `json:"prompt"`
	Model string `json:"model"`
}

type genAIResponse struct {
	Candidates []struct {
		Output string `json:"output"`
	} `json:"candidates"`
}

func (g *GenAI) GenerateDilemma(ctx context.Context, role horacero.Role, state horacero.GameState) (DilemmaResponse, error) {
	snapshot, _ := json.Marshal(state)
	prompt := fmt.Sprintf(
		`Eres el rol %s. Estado del juego: %s. Proporciona un dilema con descripción y tres opciones de respuesta, formato JSON: { "dilemmaDescription": string, "choices": [{ "id": string, "text": string }] }`,
		role.Title, snapshot,
	)

	var resp DilemmaResponse
	if err := g.generate(ctx, prompt, &resp); err != nil {
		g.logger.Warn("genai dilemma failed, serving fallback", "role", role.ID, "error", err)
		return FallbackDilemma(), nil
	}
	if resp.Description == "" || len(resp.Choices) == 0 {
		g.logger.Warn("genai dilemma incomplete, serving fallback", "role", role.ID)
		return FallbackDilemma(), nil
	}
	return resp, nil
}

func (g *GenAI) EvaluateDecision(ctx context.Context, role horacero.Role, choiceText string, state horacero.GameState) (EvaluationResponse, error) {
	snapshot, _ := json.Marshal(state)
	prompt := fmt.Sprintf(
		`Eres el rol %s. Estado del juego: %s. El jugador eligió: %q. Evalúa esta decisión y devuelve un objeto JSON con: { "narrative": string, "scoreUpdates": { "financial": number, "reputation": number, "operational": number, "dataIntegrity": number } }`,
		role.Title, snapshot, choiceText,
	)

	var resp EvaluationResponse
	if err := g.generate(ctx, prompt, &resp); err != nil {
		g.logger.Warn("genai evaluation failed, serving fallback", "role", role.ID, "error", err)
		return NeutralEvaluation(), nil
	}
	if resp.Narrative == "" {
		g.logger.Warn("genai evaluation incomplete, serving fallback", "role", role.ID)
		return NeutralEvaluation(), nil
	}
	return resp, nil
}

// generate calls the model and decodes the first candidate's output
// into dest.
func (g *GenAI) generate(ctx context.Context, prompt string, dest any) error {
	var reqBody genAIRequest
	reqBody.Prompt.Text = prompt
	reqBody.Model = g.model

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateText?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling model: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("model returned status %d", res.StatusCode)
	}

	var out genAIResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Output == "" {
		return fmt.Errorf("no candidates in response")
	}

	if err := json.Unmarshal([]byte(out.Candidates[0].Output), dest); err != nil {
		return fmt.Errorf("parsing candidate output: %w", err)
	}
	return nil
}

var _ Provider = (*GenAI)(nil)
