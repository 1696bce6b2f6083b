package ports

import (
	"context"
	"time"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage
	Model       string
	Temperature float64
	MaxTokens   int
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResult struct {
	Content string
	Usage   TokenUsage
	Model   string
}

type SingleRequest struct {
	Text       string
	SourceLang string
	TargetLang string
	Model      string
}

type SingleResult struct {
	TranslatedText string
	TokenCount     int
	ProcessingTime time.Duration
	ModelInfo      string
}

type ModelInfo struct {
	Name          string
	Description   string
	ContextTokens int
}

// Provider is the uniform capability interface over one AI backend.
// Implementations are independent variants; they share no behavior beyond
// normalized error construction (see adapters/llm/aierr).
type Provider interface {
	Name() string
	TranslateSingle(ctx context.Context, req SingleRequest) (SingleResult, error)
	ExecuteChatCompletion(ctx context.Context, req ChatRequest) (ChatResult, error)
	ValidateAPIKey(ctx context.Context) error
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
