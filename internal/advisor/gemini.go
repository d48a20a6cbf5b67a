package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"SIPAdvisor/internal/common"
)

const DefaultModel = "gemini-2.0-flash"

const promptTemplate = `You are a cautious investment assistant. Based only on the facts below,
answer with exactly one word: BUY, HOLD or SELL.

%s`

// generator is the slice of the genai client the advisor uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAdvisor asks a Gemini model for a one-word recommendation.
type GeminiAdvisor struct {
	models generator
	model  string
	logger arbor.ILogger
}

// GeminiOption configures the advisor
type GeminiOption func(*GeminiAdvisor)

// WithModel sets the model to use
func WithModel(model string) GeminiOption {
	return func(a *GeminiAdvisor) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger arbor.ILogger) GeminiOption {
	return func(a *GeminiAdvisor) {
		a.logger = logger
	}
}

// NewGeminiAdvisor creates an advisor backed by the Gemini API.
func NewGeminiAdvisor(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiAdvisor(client.Models, opts...), nil
}

func newGeminiAdvisor(models generator, opts ...GeminiOption) *GeminiAdvisor {
	a := &GeminiAdvisor{
		models: models,
		model:  DefaultModel,
		logger: common.GetLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Advise implements Advisor.
func (a *GeminiAdvisor) Advise(ctx context.Context, factSummary string) (string, error) {
	a.logger.Debug().Str("model", a.model).Msg("Requesting advisor opinion")

	prompt := fmt.Sprintf(promptTemplate, factSummary)
	result, err := a.models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate advice: %w", err)
	}
	text, err := extractText(result)
	if err != nil {
		return "", err
	}
	return ParseLabel(text)
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
