// Package ollama implements the provider adapter for a local Ollama server.
package ollama

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

const defaultBaseURL = "http://localhost:11434"

type Client struct {
	baseURL     string
	model       string
	temperature float64
	http        *resty.Client
}

func New(cfg config.AdapterConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		http:        resty.New().SetTimeout(timeout),
	}
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) url(tail string) string {
	base := c.baseURL
	if base == "" {
		base = defaultBaseURL
	}
	return strings.TrimRight(base, "/") + tail
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

func (c *Client) ExecuteChatCompletion(ctx context.Context, req ports.ChatRequest) (ports.ChatResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	body := map[string]any{
		"model":    model,
		"messages": req.Messages,
		"stream":   false,
		"options":  map[string]any{"temperature": req.Temperature},
	}

	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.url("/api/chat"))
	if err != nil {
		return ports.ChatResult{}, aierr.FromTransport("ollama", err)
	}

	var resp chatResponse
	if uerr := json.Unmarshal(rr.Body(), &resp); uerr != nil && !rr.IsError() {
		return ports.ChatResult{}, aierr.New("ollama", aierr.CodeLogicalError, 0,
			fmt.Sprintf("malformed response body: %v", uerr))
	}
	if rr.IsError() {
		msg := rr.Status()
		if resp.Error != "" {
			msg = resp.Error
		}
		return ports.ChatResult{}, aierr.New("ollama", aierr.CodeAPIError, rr.StatusCode(), msg)
	}
	if resp.Error != "" {
		return ports.ChatResult{}, aierr.New("ollama", aierr.CodeLogicalError, 0, resp.Error)
	}

	out := ports.ChatResult{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: ports.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
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

// ValidateAPIKey checks server reachability; Ollama itself is keyless.
func (c *Client) ValidateAPIKey(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	rr, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(c.url("/api/tags"))
	if err != nil {
		return nil, aierr.FromTransport("ollama", err)
	}
	if rr.IsError() {
		return nil, aierr.New("ollama", aierr.CodeAPIError, rr.StatusCode(), rr.Status())
	}
	out := make([]ports.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		out = append(out, ports.ModelInfo{Name: m.Name})
	}
	return out, nil
}
