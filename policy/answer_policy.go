package policy

import "strings"

// Rule is a single safety predicate over a user question. Rules are pure:
// no I/O, no side effects, deterministic for a given question.
type Rule interface {
	// Evaluate returns whether the question must be refused and, if so, a
	// human-readable reason suitable for showing to the end user.
	Evaluate(question string) (refuse bool, reason string)
}

// AnswerPolicy decides whether a question may be answered at all.
// Rules are evaluated in order and the first match wins, so appending a new
// rule never changes the meaning of existing ones.
type AnswerPolicy struct {
	rules []Rule
}

// NewAnswerPolicy creates a policy with the default rule chain
func NewAnswerPolicy() *AnswerPolicy {
	return &AnswerPolicy{
		rules: []Rule{
			emptyQuestionRule{},
		},
	}
}

// NewAnswerPolicyWithRules creates a policy with an explicit rule chain,
// evaluated in the given order
func NewAnswerPolicyWithRules(rules ...Rule) *AnswerPolicy {
	return &AnswerPolicy{rules: rules}
}

// ShouldRefuse evaluates the rule chain against the question. The first
// triggering rule's reason is returned; if no rule triggers, the question
// is allowed and the reason is empty.
func (p *AnswerPolicy) ShouldRefuse(question string) (bool, string) {
	for _, rule := range p.rules {
		if refuse, reason := rule.Evaluate(question); refuse {
			return true, reason
		}
	}
	return false, ""
}

// emptyQuestionRule refuses blank or whitespace-only questions
type emptyQuestionRule struct{}

func (emptyQuestionRule) Evaluate(question string) (bool, string) {
	if strings.TrimSpace(question) == "" {
		return true, "Please enter a question."
	}
	return false, ""
}
