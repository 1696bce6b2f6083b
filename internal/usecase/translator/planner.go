package translator

import (
	"log/slog"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/prompt"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

// Batch is a token-bounded group of segments sent to the AI backend in
// one request.
type Batch struct {
	Segments []*domain.Segment
	Tokens   int // estimated input tokens including the system prompt
}

// PlanBatches groups ordered segments into token-bounded batches. Packing
// is greedy and order-preserving: document order affects cross-segment
// context and is kept both within and across batches. A segment whose own
// cost plus the system prompt exceeds maxInputTokens is dropped with a
// logged error rather than placed in any batch.
func PlanBatches(segs []*domain.Segment, systemPrompt string, maxInputTokens int, est ports.TokenEstimator, model string) []Batch {
	systemTokens := est.Estimate(systemPrompt, model)

	var batches []Batch
	current := Batch{Tokens: systemTokens}
	for _, s := range segs {
		segTokens := est.Estimate(prompt.SegmentBlock(s), model)
		if systemTokens+segTokens > maxInputTokens {
			slog.Error("segment exceeds token limit by itself, dropping from plan",
				"segment", s.ID, "index", s.Index,
				"tokens", segTokens, "limit", maxInputTokens)
			continue
		}
		if len(current.Segments) > 0 && current.Tokens+segTokens > maxInputTokens {
			batches = append(batches, current)
			current = Batch{Tokens: systemTokens}
		}
		current.Segments = append(current.Segments, s)
		current.Tokens += segTokens
	}
	if len(current.Segments) > 0 {
		batches = append(batches, current)
	}
	return batches
}
