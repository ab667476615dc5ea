package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"evcharge-pipeline/models"
	"evcharge-pipeline/utils"
)

// FAQTarget is the number of question/answer pairs every piece of content
// carries, generated or fallback.
const FAQTarget = 5

// Generation temperatures, matching the service tuning the pipeline was
// calibrated with: higher variation for narratives, tighter for JSON.
const (
	introTemperature = 0.8
	faqTemperature   = 0.7
)

// PacingPolicy throttles outbound generation requests: after every
// RequestsPerPause localities the caller sleeps for Cooldown. The zero
// value disables pacing entirely.
type PacingPolicy struct {
	RequestsPerPause int
	Cooldown         time.Duration
}

// ShouldPause reports whether a cooldown is due after `completed` localities.
func (p PacingPolicy) ShouldPause(completed int) bool {
	return p.RequestsPerPause > 0 && completed > 0 && completed%p.RequestsPerPause == 0
}

// Synthesizer produces narrative + FAQ content for localities. Per locality
// it moves through PENDING → REQUESTED → SUCCEEDED, or drops to the
// deterministic fallback on the first failure. Once a failure is declared,
// no further outbound calls are made for that locality.
type Synthesizer struct {
	gen    TextGenerator
	pacing PacingPolicy
	logger *utils.Logger
}

// NewSynthesizer creates a Synthesizer. A nil generator is allowed and sends
// every locality straight to the fallback path (offline mode).
func NewSynthesizer(gen TextGenerator, pacing PacingPolicy, logger *utils.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, pacing: pacing, logger: logger}
}

// Pacing exposes the request-pacing policy for the orchestrating caller.
func (s *Synthesizer) Pacing() PacingPolicy {
	return s.pacing
}

// Synthesize produces content for one locality. It never returns an error:
// every failure of the generation service is recovered with template
// content, so content is always available.
func (s *Synthesizer) Synthesize(ctx context.Context, slug string, f Facts) *models.GeneratedContent {
	if s.gen == nil {
		return s.fallback(slug, f)
	}

	intro, err := s.gen.Generate(ctx, introSystemPrompt, buildIntroPrompt(f), introTemperature, false)
	if err != nil || strings.TrimSpace(intro) == "" {
		s.logger.Warn("[content] %s: intro generation failed, using fallback: %v", slug, err)
		return s.fallback(slug, f)
	}

	rawFAQ, err := s.gen.Generate(ctx, faqSystemPrompt, buildFAQPrompt(f), faqTemperature, true)
	if err != nil {
		s.logger.Warn("[content] %s: FAQ generation failed, using fallback: %v", slug, err)
		return s.fallback(slug, f)
	}

	faq, err := parseFAQ(rawFAQ)
	if err != nil {
		s.logger.Warn("[content] %s: FAQ payload rejected, using fallback: %v", slug, err)
		return s.fallback(slug, f)
	}

	return &models.GeneratedContent{
		Slug:   slug,
		Intro:  strings.TrimSpace(intro),
		FAQ:    faq,
		Source: models.SourceGenerated,
	}
}

func (s *Synthesizer) fallback(slug string, f Facts) *models.GeneratedContent {
	return &models.GeneratedContent{
		Slug:   slug,
		Intro:  fallbackIntro(f),
		FAQ:    fallbackFAQ(f),
		Source: models.SourceFallback,
	}
}

// faqEnvelope covers the object shapes the service is known to return when
// asked for a JSON array.
type faqEnvelope struct {
	FAQs      []models.FAQItem `json:"faqs"`
	Questions []models.FAQItem `json:"questions"`
}

// parseFAQ validates the FAQ payload against the expected schema: an ordered
// sequence of exactly FAQTarget {question, answer} objects, either bare or
// under a "faqs"/"questions" key. Anything else is rejected.
func parseFAQ(raw string) ([]models.FAQItem, error) {
	raw = stripCodeFence(raw)

	var items []models.FAQItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		var env faqEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return nil, fmt.Errorf("%w: FAQ payload is not valid JSON", ErrGenerationUnavailable)
		}
		items = env.FAQs
		if len(items) == 0 {
			items = env.Questions
		}
	}

	if len(items) != FAQTarget {
		return nil, fmt.Errorf("%w: expected %d FAQ entries, got %d",
			ErrGenerationUnavailable, FAQTarget, len(items))
	}

	for i, item := range items {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return nil, fmt.Errorf("%w: FAQ entry %d has an empty field", ErrGenerationUnavailable, i)
		}
	}

	return items, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models wrap JSON responses in even when asked not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
