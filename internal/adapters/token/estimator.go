// Package token approximates model token counts using tiktoken, with a
// cheap length-based fallback when the tokenizer is unavailable.
package token

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

type Estimator struct {
	mu    sync.Mutex
	cache map[string]*tiktoken.Tiktoken
}

func New() *Estimator {
	return &Estimator{cache: map[string]*tiktoken.Tiktoken{}}
}

// Estimate returns the approximate token cost of text for the given model.
// Unknown models fall back to the reference encoding; if the tokenizer
// itself fails, the estimate degrades to ceil(len/4).
func (e *Estimator) Estimate(text, model string) int {
	if text == "" {
		return 0
	}
	enc := e.encoding(model)
	if enc == nil {
		return fallbackEstimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (e *Estimator) encoding(model string) *tiktoken.Tiktoken {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enc, ok := e.cache[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			e.cache[model] = nil
			return nil
		}
	}
	e.cache[model] = enc
	return enc
}

func fallbackEstimate(text string) int {
	return (len(text) + 3) / 4
}
