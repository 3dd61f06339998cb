package models

import "time"

// Confidence represents how confident the pipeline is in an answer
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// RiskLevel represents the legal risk attached to acting on an answer
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Disclaimer is attached verbatim to every answer the pipeline produces
const Disclaimer = "This is for informational and educational purposes only and is not legal advice. Consult a licensed attorney for advice about your specific situation."

// CitedSource is a point-in-time projection of a LegalSource embedded in an
// answer. It carries no lifecycle status, so an answer stays stable even if
// the underlying source is deprecated later.
type CitedSource struct {
	Title       string    `json:"title"`
	Citation    string    `json:"citation"`
	URL         *string   `json:"url,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// LegalAnswer is the structured output of the answer pipeline.
// Immutable once returned to the caller.
type LegalAnswer struct {
	Summary    string        `json:"summary"`
	Guidance   string        `json:"guidance"`
	Confidence Confidence    `json:"confidence"`
	Risk       RiskLevel     `json:"risk"`
	Citations  []CitedSource `json:"citations"`
	NextSteps  []string      `json:"next_steps"`
	Disclaimer string        `json:"disclaimer"`
}

// NewRefusalAnswer builds the degenerate answer returned when the safety
// policy refuses a question. It is a normal LegalAnswer, not an error, so
// callers handle it like any other answer.
func NewRefusalAnswer(reason string) *LegalAnswer {
	return &LegalAnswer{
		Summary:    "Unable to answer",
		Guidance:   reason,
		Confidence: ConfidenceLow,
		Risk:       RiskLow,
		Citations:  []CitedSource{},
		NextSteps:  []string{},
		Disclaimer: Disclaimer,
	}
}

// CiteSource projects a LegalSource into a CitedSource
func CiteSource(s LegalSource) CitedSource {
	cited := CitedSource{
		Title:       s.Title,
		LastUpdated: s.LastUpdated,
		URL:         s.URL,
	}
	if s.Citation != nil {
		cited.Citation = *s.Citation
	}
	return cited
}
