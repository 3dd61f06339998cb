package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"legalmind-backend/models"
	"legalmind-backend/policy"
)

// SourceRetriever is the read contract against the legal source store
type SourceRetriever interface {
	TopSources(ctx context.Context, jurisdiction string, limit int) ([]models.LegalSource, error)
}

var (
	ErrRetrievalFailed  = errors.New("failed to retrieve legal sources")
	ErrGenerationFailed = errors.New("failed to generate guidance")
)

const (
	defaultJurisdiction = "PH"
	defaultSourceLimit  = 5
)

// defaultNextSteps are appended to every substantive answer, after any
// generation-specific steps
var defaultNextSteps = []string{
	"Confirm the jurisdiction and key dates.",
	"Gather relevant documents and messages.",
	"If risk is high or time-sensitive, consult a licensed attorney.",
}

// AnswerService runs the answer pipeline: safety gate, source retrieval,
// generation, and assembly of the final LegalAnswer. It holds no mutable
// state and persists nothing; concurrent calls need no coordination.
type AnswerService struct {
	policy       *policy.AnswerPolicy
	sources      SourceRetriever
	generator    Generator
	jurisdiction string
	sourceLimit  int
}

// AnswerServiceOption is a functional option for AnswerService
type AnswerServiceOption func(*AnswerService)

// WithAnswerPolicy sets the safety policy
func WithAnswerPolicy(p *policy.AnswerPolicy) AnswerServiceOption {
	return func(s *AnswerService) {
		s.policy = p
	}
}

// WithSourceRetriever sets the legal source store
func WithSourceRetriever(r SourceRetriever) AnswerServiceOption {
	return func(s *AnswerService) {
		s.sources = r
	}
}

// WithGenerator sets the generation step
func WithGenerator(g Generator) AnswerServiceOption {
	return func(s *AnswerService) {
		s.generator = g
	}
}

// WithDefaultJurisdiction sets the jurisdiction used when the caller
// supplies a blank one
func WithDefaultJurisdiction(code string) AnswerServiceOption {
	return func(s *AnswerService) {
		s.jurisdiction = code
	}
}

// WithSourceLimit sets how many sources are retrieved per question
func WithSourceLimit(limit int) AnswerServiceOption {
	return func(s *AnswerService) {
		s.sourceLimit = limit
	}
}

// NewAnswerService creates a new answer service
func NewAnswerService(opts ...AnswerServiceOption) *AnswerService {
	s := &AnswerService{
		policy:       policy.NewAnswerPolicy(),
		generator:    NewStubGenerator(),
		jurisdiction: defaultJurisdiction,
		sourceLimit:  defaultSourceLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnswerRequest represents a request to answer a legal question
type AnswerRequest struct {
	Jurisdiction string
	Question     string
}

// AnswerResult represents the result of answering a legal question
type AnswerResult struct {
	Jurisdiction string
	Answer       *models.LegalAnswer
}

// Answer runs the full pipeline for one question. Refusals come back as a
// normal answer; retrieval and generation failures come back as
// ErrRetrievalFailed / ErrGenerationFailed; a cancelled context comes back
// as the context's own error so callers can tell the three apart.
func (s *AnswerService) Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	if s.sources == nil {
		return nil, errors.New("source retriever not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	jurisdiction := strings.TrimSpace(req.Jurisdiction)
	if jurisdiction == "" {
		jurisdiction = s.jurisdiction
	}

	// Gate before any retrieval or generation cost is spent
	if refuse, reason := s.policy.ShouldRefuse(req.Question); refuse {
		return &AnswerResult{
			Jurisdiction: jurisdiction,
			Answer:       models.NewRefusalAnswer(reason),
		}, nil
	}

	sources, err := s.sources.TopSources(ctx, jurisdiction, s.sourceLimit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Warning: source retrieval failed for %s: %v", jurisdiction, err)
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	generated, err := s.generator.Generate(ctx, GenerateInput{
		Jurisdiction: jurisdiction,
		Question:     req.Question,
		Sources:      sources,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Warning: generation failed for %s: %v", jurisdiction, err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &AnswerResult{
		Jurisdiction: jurisdiction,
		Answer:       assembleAnswer(generated, sources),
	}, nil
}

// assembleAnswer builds the final LegalAnswer from the generation output and
// the retrieved sources. Citations keep retrieval order; there is no
// re-ranking at this stage.
func assembleAnswer(generated *GenerateOutput, sources []models.LegalSource) *models.LegalAnswer {
	confidence := generated.Confidence
	if confidence == "" {
		confidence = models.ConfidenceLow
	}
	risk := generated.Risk
	if risk == "" {
		risk = models.RiskModerate
	}

	citations := make([]models.CitedSource, 0, len(sources))
	for _, src := range sources {
		citations = append(citations, models.CiteSource(src))
	}

	nextSteps := make([]string, 0, len(generated.NextSteps)+len(defaultNextSteps))
	nextSteps = append(nextSteps, generated.NextSteps...)
	nextSteps = append(nextSteps, defaultNextSteps...)

	return &models.LegalAnswer{
		Summary:    generated.Summary,
		Guidance:   generated.Guidance,
		Confidence: confidence,
		Risk:       risk,
		Citations:  citations,
		NextSteps:  nextSteps,
		Disclaimer: models.Disclaimer,
	}
}
