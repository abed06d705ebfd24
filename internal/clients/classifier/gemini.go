// Package classifier turns free-text research evidence into the
// qualitative answer enum via a Gemini model.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

const systemPrompt = `You assess evidence about a company against a single yes/no question.
Answer with exactly one word: yes, partial, no, or unclear.
- yes: the evidence clearly supports the question.
- partial: the evidence partly supports it, with meaningful caveats.
- no: the evidence contradicts the question.
- unclear: the evidence is insufficient to judge.`

// GeminiClassifier answers qualitative questions via the Gemini API.
type GeminiClassifier struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiClassifier creates a classifier backed by the given model.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClassifier{
		client: client,
		model:  model,
		log:    log.With().Str("client", "classifier").Logger(),
	}, nil
}

// Classify maps question plus evidence to a qualitative answer. Responses
// that cannot be parsed count as unclear rather than failing the analysis.
func (c *GeminiClassifier) Classify(ctx context.Context, question, evidence string) (domain.Answer, error) {
	prompt := fmt.Sprintf("Question: %s\n\nEvidence:\n%s", question, evidence)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return domain.AnswerUnclear, fmt.Errorf("gemini generation failed: %w", err)
	}

	answer := ParseAnswer(result.Text())
	c.log.Debug().
		Str("question", question).
		Str("answer", string(answer)).
		Msg("Classified answer")

	return answer, nil
}

// ParseAnswer extracts the answer enum from model output. Matching is
// lenient on casing and surrounding prose; anything unrecognized is
// unclear.
func ParseAnswer(text string) domain.Answer {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.Trim(normalized, ".!\"'`")

	switch normalized {
	case "yes":
		return domain.AnswerYes
	case "partial":
		return domain.AnswerPartial
	case "no":
		return domain.AnswerNo
	case "unclear":
		return domain.AnswerUnclear
	}

	// The model sometimes wraps the verdict in a sentence; take the first
	// recognizable word. "no" is checked via prefix to avoid matching the
	// "no" inside words like "normal".
	for _, candidate := range []domain.Answer{domain.AnswerPartial, domain.AnswerUnclear, domain.AnswerYes} {
		if strings.Contains(normalized, string(candidate)) {
			return candidate
		}
	}
	if strings.HasPrefix(normalized, "no") {
		return domain.AnswerNo
	}

	return domain.AnswerUnclear
}
