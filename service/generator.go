package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalmind-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// GenerateInput carries everything the generation step may use as context
type GenerateInput struct {
	Jurisdiction string
	Question     string
	Sources      []models.LegalSource
}

// GenerateOutput is the draft guidance produced by a generation step.
// Confidence and Risk may be empty; the composer fills conservative defaults.
type GenerateOutput struct {
	Summary    string
	Guidance   string
	Confidence models.Confidence
	Risk       models.RiskLevel
	NextSteps  []string
}

// Generator turns a question and retrieved sources into draft guidance.
// The deterministic stub and the Gemini-backed implementation are
// interchangeable; the composer does not care which one it holds.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}

// StubGenerator produces a deterministic template answer. It is the shipped
// default when no model API key is configured.
type StubGenerator struct{}

// NewStubGenerator creates a stub generator
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{}
}

// Generate returns template guidance echoing the question
func (g *StubGenerator) Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &GenerateOutput{
		Summary: "General guidance (stub)",
		Guidance: fmt.Sprintf(
			"You asked: %q.\n\nLegalMind will provide jurisdiction-aware guidance for %s with citations once the RAG pipeline is connected.",
			input.Question, input.Jurisdiction,
		),
		Confidence: models.ConfidenceLow,
		Risk:       models.RiskModerate,
	}, nil
}

const (
	defaultGeminiModel = "gemini-1.5-pro"
	maxRetries         = 3
	initialBackoff     = time.Second
)

// GeminiGenerator produces guidance with a Gemini model call grounded on the
// retrieved sources
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(client *genai.Client, modelName string) *GeminiGenerator {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, modelName: modelName}
}

// geminiAnswer is the JSON shape the model is instructed to return
type geminiAnswer struct {
	Summary    string   `json:"summary"`
	Guidance   string   `json:"guidance"`
	Confidence string   `json:"confidence"`
	Risk       string   `json:"risk"`
	NextSteps  []string `json:"next_steps"`
}

// Generate calls the model with a strict JSON prompt built from the sources
func (g *GeminiGenerator) Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"

	prompt := buildAnswerPrompt(input)

	var resp *genai.GenerateContentResponse
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var parsed geminiAnswer
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		// Malformed model output is a generation failure; never fabricate
		// a plausible-looking answer from it.
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}

	return &GenerateOutput{
		Summary:    parsed.Summary,
		Guidance:   parsed.Guidance,
		Confidence: parseConfidence(parsed.Confidence),
		Risk:       parseRisk(parsed.Risk),
		NextSteps:  parsed.NextSteps,
	}, nil
}

// buildAnswerPrompt assembles the generation prompt from the question and
// the retrieved sources
func buildAnswerPrompt(input GenerateInput) string {
	var sb strings.Builder

	sb.WriteString("You are a legal information assistant. Answer the question below using ONLY the listed sources for the given jurisdiction. Do not invent citations.\n\n")
	fmt.Fprintf(&sb, "Jurisdiction: %s\n", input.Jurisdiction)
	fmt.Fprintf(&sb, "Question: %s\n\n", input.Question)

	if len(input.Sources) == 0 {
		sb.WriteString("No verified sources are available for this jurisdiction. Say so and keep confidence Low.\n\n")
	} else {
		sb.WriteString("Sources:\n")
		for i, src := range input.Sources {
			citation := ""
			if src.Citation != nil {
				citation = *src.Citation
			}
			fmt.Fprintf(&sb, "%d. %s (%s) %s — last updated %s\n",
				i+1, src.Title, src.SourceType, citation, src.LastUpdated.Format("2006-01-02"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Respond with a single JSON object:
{"summary": "one-line headline", "guidance": "plain-language guidance", "confidence": "Low|Medium|High", "risk": "Low|Moderate|High", "next_steps": ["specific action", ...]}`)

	return sb.String()
}

// responseText flattens the text parts of a model response
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("model returned no text content")
	}

	return sb.String(), nil
}

// parseConfidence maps model output to a known confidence level, defaulting
// conservatively when unrecognized
func parseConfidence(s string) models.Confidence {
	switch models.Confidence(s) {
	case models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
		return models.Confidence(s)
	default:
		return ""
	}
}

// parseRisk maps model output to a known risk level
func parseRisk(s string) models.RiskLevel {
	switch models.RiskLevel(s) {
	case models.RiskLow, models.RiskModerate, models.RiskHigh:
		return models.RiskLevel(s)
	default:
		return ""
	}
}
