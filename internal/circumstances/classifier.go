// Package circumstances classifies disruption reasons under the
// "extraordinary circumstances" exemption. The primary path is an LLM call
// with a bounded timeout; the deterministic keyword fallback is the
// unconditional recovery path, so a classification failure can never fail an
// eligibility evaluation.
package circumstances

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Assessment source labels.
const (
	SourceLLM     = "llm"
	SourceKeyword = "keyword"
	SourceNone    = "none"
)

// Assessment is the classifier verdict. The eligibility engine consumes only
// IsExtraordinary; the rest is kept for audit records.
type Assessment struct {
	IsExtraordinary bool    `json:"isExtraordinary"`
	Confidence      float64 `json:"confidence"`
	Category        string  `json:"category,omitempty"`
	Explanation     string  `json:"explanation,omitempty"`
	Source          string  `json:"source"`
}

// Analyzer is the external NLP classifier boundary. It may fail; the service
// substitutes the keyword fallback on any error.
type Analyzer interface {
	Analyze(ctx context.Context, reason string) (*Assessment, error)
}

// Service runs the two-path classification.
type Service struct {
	llm     Analyzer
	timeout time.Duration
}

// NewService creates a classifier service. A nil analyzer disables the LLM
// path entirely, leaving the deterministic fallback.
func NewService(llm Analyzer, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{llm: llm, timeout: timeout}
}

// Assess classifies a disruption reason. Empty or absent reason text always
// yields not-extraordinary.
func (s *Service) Assess(ctx context.Context, reason string) Assessment {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Assessment{IsExtraordinary: false, Confidence: 100, Source: SourceNone}
	}

	if s.llm != nil {
		llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
		result, err := s.llm.Analyze(llmCtx, reason)
		cancel()
		if err == nil && result != nil {
			result.Source = SourceLLM
			return *result
		}
		slog.Warn("circumstances classifier failed, using keyword fallback",
			"error", err,
		)
	}

	return keywordAssess(reason)
}

// IsExtraordinary is the boolean the scenario calculators consume.
func (s *Service) IsExtraordinary(ctx context.Context, reason string) bool {
	return s.Assess(ctx, reason).IsExtraordinary
}

// keywordAssess is the deterministic fallback path.
func keywordAssess(reason string) Assessment {
	if matchesAny(reason, extraordinaryKeywords) {
		return Assessment{
			IsExtraordinary: true,
			Confidence:      80,
			Category:        matchCategory(reason),
			Explanation:     "matched extraordinary-circumstances keyword list",
			Source:          SourceKeyword,
		}
	}
	return Assessment{
		IsExtraordinary: false,
		Confidence:      80,
		Explanation:     "no extraordinary-circumstances keyword matched",
		Source:          SourceKeyword,
	}
}

// WithinAirlineControl implements the Canadian APPR framing: a delay is
// within airline control unless the reason matches the outside-control list.
// Keyword-only: APPR verdicts must not depend on LLM availability.
// Empty reason defaults to within control.
func WithinAirlineControl(reason string) bool {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return true
	}
	return !matchesAny(reason, airlineControlKeywords)
}
