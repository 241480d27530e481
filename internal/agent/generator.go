package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUpstream wraps every failure of the generation service (unreachable,
// non-success, missing credential, timeout). Callers degrade to a reply-less
// turn instead of failing the request.
var ErrUpstream = errors.New("response generator unavailable")

// FallbackReply is returned when the generator succeeds but produces no
// content; the orchestrator must always have something to persist.
const FallbackReply = "hmm, can u explain again? im confused..."

// Generation knobs (from the original agent configuration).
const (
	generationTemperature = 0.8
	generationMaxTokens   = 150
	defaultGeminiModel    = "gemini-2.0-flash"
)

// Generator produces the persona reply for a prompt. Injected so the
// orchestrator can be tested with a deterministic stand-in.
type Generator interface {
	Generate(ctx context.Context, turns []ChatTurn) (string, error)
}

// UnavailableGenerator always fails with ErrUpstream. Used when no
// generation credential is configured so turns still get recorded.
type UnavailableGenerator struct{}

func (UnavailableGenerator) Generate(context.Context, []ChatTurn) (string, error) {
	return "", fmt.Errorf("%w: GEMINI_API_KEY not configured", ErrUpstream)
}

// GeminiGenerator calls Google's Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	modelID string
}

// NewGeminiGenerator creates a generator from GEMINI_API_KEY / GEMINI_MODEL.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not configured", ErrUpstream)
	}

	modelID := os.Getenv("GEMINI_MODEL")
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, modelID: modelID}, nil
}

// Generate sends the prompt turns to Gemini and returns the reply text.
func (g *GeminiGenerator) Generate(ctx context.Context, turns []ChatTurn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: empty prompt", ErrUpstream)
	}

	model := g.client.GenerativeModel(g.modelID)
	model.SetTemperature(generationTemperature)
	model.SetMaxOutputTokens(generationMaxTokens)

	// System turns become the model's system instruction.
	var system []string
	var chat []ChatTurn
	for _, turn := range turns {
		if turn.Role == TurnSystem {
			system = append(system, turn.Content)
			continue
		}
		chat = append(chat, turn)
	}
	if len(system) > 0 {
		model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n\n")))
	}
	if len(chat) == 0 {
		return "", fmt.Errorf("%w: prompt has no user turns", ErrUpstream)
	}

	cs := model.StartChat()
	for _, turn := range chat[:len(chat)-1] {
		role := "user"
		if turn.Role == TurnAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(chat[len(chat)-1].Content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	reply := firstCandidateText(resp)
	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
