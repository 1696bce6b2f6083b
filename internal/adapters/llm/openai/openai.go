// Package openai implements the provider adapter for OpenAI-compatible
// chat-completion backends (OpenAI itself, OpenRouter, DeepSeek and other
// services speaking the same wire protocol).
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/llm/aierr"
	"github.com/Jjjmaes/AIT-sub004/internal/adapters/prompt"
	"github.com/Jjjmaes/AIT-sub004/internal/config"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

const defaultBaseURL = "https://api.openai.com"

type Client struct {
	provider    string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	http        *resty.Client
}

func New(cfg config.AdapterConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	name := cfg.Provider
	if name == "" {
		name = "openai"
	}
	return &Client{
		provider:    name,
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		http:        resty.New().SetTimeout(timeout),
	}
}

func (c *Client) Name() string { return c.provider }

// apiURL builds an endpoint URL whether or not the base already carries
// the /v1 segment.
func (c *Client) apiURL(tail string) string {
	base := c.baseURL
	if base == "" {
		base = defaultBaseURL
	}
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/v1"); idx >= 0 {
		b = b[:idx+len("/v1")]
		return b + tail
	}
	return b + "/v1" + tail
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) ExecuteChatCompletion(ctx context.Context, req ports.ChatRequest) (ports.ChatResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	body := map[string]any{
		"model":       model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"stream":      false,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}

	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.apiURL("/chat/completions"))
	if err != nil {
		return ports.ChatResult{}, aierr.FromTransport(c.provider, err)
	}

	var resp chatResponse
	if uerr := json.Unmarshal(rr.Body(), &resp); uerr != nil && !rr.IsError() {
		return ports.ChatResult{}, aierr.New(c.provider, aierr.CodeLogicalError, 0,
			fmt.Sprintf("malformed response body: %v", uerr))
	}
	if rr.IsError() {
		msg := rr.Status()
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return ports.ChatResult{}, aierr.New(c.provider, aierr.CodeAPIError, rr.StatusCode(), msg)
	}
	// Some backends return 200 with an error payload instead of a status.
	if resp.Error != nil && resp.Error.Message != "" {
		return ports.ChatResult{}, aierr.New(c.provider, aierr.CodeLogicalError, 0, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return ports.ChatResult{}, aierr.New(c.provider, aierr.CodeLogicalError, 0, "no choices returned")
	}

	out := ports.ChatResult{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: ports.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if out.Model == "" {
		out.Model = model
	}
	return out, nil
}

func (c *Client) TranslateSingle(ctx context.Context, req ports.SingleRequest) (ports.SingleResult, error) {
	start := time.Now()
	res, err := c.ExecuteChatCompletion(ctx, ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: prompt.SingleSystem(req.SourceLang, req.TargetLang)},
			{Role: "user", Content: req.Text},
		},
		Model:       req.Model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return ports.SingleResult{}, err
	}
	return ports.SingleResult{
		TranslatedText: strings.TrimSpace(res.Content),
		TokenCount:     res.Usage.TotalTokens,
		ProcessingTime: time.Since(start),
		ModelInfo:      res.Model,
	}, nil
}

func (c *Client) ValidateAPIKey(ctx context.Context) error {
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		Get(c.apiURL("/models"))
	if err != nil {
		return aierr.FromTransport(c.provider, err)
	}
	if rr.IsError() {
		return aierr.New(c.provider, aierr.CodeAPIError, rr.StatusCode(), rr.Status())
	}
	return nil
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetResult(&resp).
		Get(c.apiURL("/models"))
	if err != nil {
		return nil, aierr.FromTransport(c.provider, err)
	}
	if rr.IsError() {
		return nil, aierr.New(c.provider, aierr.CodeAPIError, rr.StatusCode(), rr.Status())
	}
	out := make([]ports.ModelInfo, 0, len(resp.Data))
	for _, d := range resp.Data {
		label := d.Name
		if label == "" {
			label = d.ID
		}
		out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
	}
	return out, nil
}
