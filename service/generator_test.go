package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"legalmind-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubGenerator_IsDeterministic(t *testing.T) {
	g := NewStubGenerator()
	input := GenerateInput{
		Jurisdiction: "PH",
		Question:     "Can my employer terminate me without notice?",
	}

	first, err := g.Generate(context.Background(), input)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStubGenerator_EchoesQuestionAndJurisdiction(t *testing.T) {
	g := NewStubGenerator()

	output, err := g.Generate(context.Background(), GenerateInput{
		Jurisdiction: "US-CA",
		Question:     "Is a verbal contract binding?",
	})
	require.NoError(t, err)

	assert.Equal(t, "General guidance (stub)", output.Summary)
	assert.Contains(t, output.Guidance, `"Is a verbal contract binding?"`)
	assert.Contains(t, output.Guidance, "US-CA")
	assert.Equal(t, models.ConfidenceLow, output.Confidence)
	assert.Equal(t, models.RiskModerate, output.Risk)
	assert.Empty(t, output.NextSteps)
}

func TestStubGenerator_CancelledContext(t *testing.T) {
	g := NewStubGenerator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, GenerateInput{Jurisdiction: "PH", Question: "anything"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAnswerPrompt_ListsSourcesInOrder(t *testing.T) {
	citation := "RA 11232"
	input := GenerateInput{
		Jurisdiction: "PH",
		Question:     "How do I register a one-person corporation?",
		Sources: []models.LegalSource{
			{
				Title:       "Revised Corporation Code",
				SourceType:  models.SourceTypeStatute,
				Citation:    &citation,
				LastUpdated: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				Title:       "SEC Memorandum Circular",
				SourceType:  models.SourceTypeRegulation,
				LastUpdated: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	prompt := buildAnswerPrompt(input)

	assert.Contains(t, prompt, "Jurisdiction: PH")
	assert.Contains(t, prompt, "How do I register a one-person corporation?")
	assert.Contains(t, prompt, "1. Revised Corporation Code (Statute) RA 11232 — last updated 2024-06-01")
	assert.Contains(t, prompt, "2. SEC Memorandum Circular (Regulation)")
	assert.True(t, strings.Index(prompt, "Revised Corporation Code") < strings.Index(prompt, "SEC Memorandum Circular"))
}

func TestBuildAnswerPrompt_NoSources(t *testing.T) {
	prompt := buildAnswerPrompt(GenerateInput{
		Jurisdiction: "PH",
		Question:     "anything",
	})

	assert.Contains(t, prompt, "No verified sources are available")
	assert.NotContains(t, prompt, "Sources:\n1.")
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, models.ConfidenceLow, parseConfidence("Low"))
	assert.Equal(t, models.ConfidenceMedium, parseConfidence("Medium"))
	assert.Equal(t, models.ConfidenceHigh, parseConfidence("High"))
	assert.Equal(t, models.Confidence(""), parseConfidence("very high"))
	assert.Equal(t, models.Confidence(""), parseConfidence(""))
}

func TestParseRisk(t *testing.T) {
	assert.Equal(t, models.RiskLow, parseRisk("Low"))
	assert.Equal(t, models.RiskModerate, parseRisk("Moderate"))
	assert.Equal(t, models.RiskHigh, parseRisk("High"))
	assert.Equal(t, models.RiskLevel(""), parseRisk("Medium"))
}
