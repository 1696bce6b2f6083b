package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/llm/aierr"
	"github.com/Jjjmaes/AIT-sub004/internal/config"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.AdapterConfig{
		Provider: "openai",
		APIKey:   "sk-test",
		BaseURL:  srv.URL,
		Model:    "gpt-4o-mini",
	})
}

func chatReq() ports.ChatRequest {
	return ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: "translate"},
			{Role: "user", Content: "[SEG0]\nHello"},
		},
	}
}

func TestExecuteChatCompletionSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini-2024",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "[SEG0]\nHallo"}},
			},
			"usage": map[string]any{
				"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17,
			},
		})
	})

	res, err := c.ExecuteChatCompletion(context.Background(), chatReq())
	if err != nil {
		t.Fatalf("ExecuteChatCompletion: %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" || gotBody["stream"] != false {
		t.Errorf("request body = %v", gotBody)
	}
	if res.Content != "[SEG0]\nHallo" || res.Model != "gpt-4o-mini-2024" {
		t.Errorf("result = %+v", res)
	}
	if res.Usage.TotalTokens != 17 || res.Usage.PromptTokens != 12 {
		t.Errorf("usage = %+v", res.Usage)
	}
}

func TestExecuteChatCompletionHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Incorrect API key provided"},
		})
	})

	_, err := c.ExecuteChatCompletion(context.Background(), chatReq())
	if err == nil {
		t.Fatal("expected error")
	}
	if aierr.CodeOf(err) != aierr.CodeAPIError {
		t.Errorf("code = %s, want api_error", aierr.CodeOf(err))
	}
	var ae *aierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusUnauthorized || ae.Message != "Incorrect API key provided" {
		t.Errorf("error detail = %+v", ae)
	}
}

// A 200 response carrying an error payload is a logical failure.
func TestExecuteChatCompletionBodyLevelError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		})
	})

	_, err := c.ExecuteChatCompletion(context.Background(), chatReq())
	if aierr.CodeOf(err) != aierr.CodeLogicalError {
		t.Errorf("code = %s, want logical_error (err=%v)", aierr.CodeOf(err), err)
	}
}

func TestExecuteChatCompletionNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := c.ExecuteChatCompletion(context.Background(), chatReq())
	if aierr.CodeOf(err) != aierr.CodeLogicalError {
		t.Errorf("code = %s, want logical_error (err=%v)", aierr.CodeOf(err), err)
	}
}

func TestExecuteChatCompletionTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	c := New(config.AdapterConfig{
		Provider: "openai",
		BaseURL:  srv.URL,
		Timeout:  20 * time.Millisecond,
	})

	_, err := c.ExecuteChatCompletion(context.Background(), chatReq())
	if aierr.CodeOf(err) != aierr.CodeTimeout {
		t.Errorf("code = %s, want timeout (err=%v)", aierr.CodeOf(err), err)
	}
}

func TestTranslateSingle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  Hallo Welt\n"}},
			},
			"usage": map[string]any{"total_tokens": 9},
		})
	})

	res, err := c.TranslateSingle(context.Background(), ports.SingleRequest{
		Text: "Hello world", SourceLang: "en", TargetLang: "de",
	})
	if err != nil {
		t.Fatalf("TranslateSingle: %v", err)
	}
	if res.TranslatedText != "Hallo Welt" {
		t.Errorf("TranslatedText = %q, want surrounding whitespace trimmed", res.TranslatedText)
	}
	if res.TokenCount != 9 || res.ModelInfo != "gpt-4o-mini" {
		t.Errorf("result = %+v", res)
	}
}

func TestListModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "gpt-4o", "context_length": 128000},
				{"id": "deepseek/deepseek-chat", "name": "DeepSeek Chat"},
			},
		})
	})

	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("len = %d", len(models))
	}
	if models[0].Name != "gpt-4o" || models[0].ContextTokens != 128000 || models[0].Description != "gpt-4o" {
		t.Errorf("models[0] = %+v", models[0])
	}
	if models[1].Description != "DeepSeek Chat" {
		t.Errorf("models[1] = %+v", models[1])
	}
}

func TestValidateAPIKeyRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.ValidateAPIKey(context.Background())
	if aierr.CodeOf(err) != aierr.CodeAPIError {
		t.Errorf("code = %s, want api_error (err=%v)", aierr.CodeOf(err), err)
	}
}

func TestAPIURLBaseVariants(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://openrouter.ai/api/v1/", "https://openrouter.ai/api/v1/chat/completions"},
		{"http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
	}
	for _, tt := range tests {
		c := New(config.AdapterConfig{Provider: "openai", BaseURL: tt.base})
		if got := c.apiURL("/chat/completions"); got != tt.want {
			t.Errorf("apiURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
