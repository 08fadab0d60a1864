package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func chatServer(t *testing.T, content string, check func(r *http.Request, req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if check != nil {
			check(r, req)
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: content,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
			Usage: openai.Usage{TotalTokens: 100},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	server := chatServer(t, "  Resumo do experimento.  ", func(r *http.Request, req openai.ChatCompletionRequest) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
			t.Errorf("Expected system and user messages, got %+v", req.Messages)
		}
		if req.MaxTokens != 400 {
			t.Errorf("Expected default max tokens 400, got %d", req.MaxTokens)
		}
	})
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System: "sistema",
		Prompt: "prompt",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "Resumo do experimento." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %s", resp.Model)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{Prompt: "prompt"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "openai API error") {
		t.Errorf("Expected provider name in error, got %v", err)
	}
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-empty"})
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "prompt"})
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Errorf("Expected no response error, got %v", err)
	}
}

func TestOpenAIProvider_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := provider.Complete(ctx, CompletionRequest{Prompt: "prompt"})
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("Expected context deadline to stop the call early, took %v", time.Since(start))
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", provider.Name())
	}
	if provider.config.BaseURL != DefaultOllamaBaseURL {
		t.Errorf("Expected default base URL, got %s", provider.config.BaseURL)
	}
	if provider.config.Model != "llama3.2" {
		t.Errorf("Expected default model llama3.2, got %s", provider.config.Model)
	}
}

func TestOllamaProvider_Complete(t *testing.T) {
	server := chatServer(t, "Resumo local.", func(r *http.Request, req openai.ChatCompletionRequest) {
		if req.Model != "llama3.2" {
			t.Errorf("Expected model llama3.2, got %s", req.Model)
		}
	})
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "prompt"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "Resumo local." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{{ID: "gpt-4o-mini"}}})
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server shutdown")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantNil  bool
		wantErr  bool
		wantName string
	}{
		{"disabled", Config{}, true, false, ""},
		{"openai", Config{Provider: "openai", APIKey: "k"}, false, false, "openai"},
		{"openai case insensitive", Config{Provider: "OpenAI", APIKey: "k"}, false, false, "openai"},
		{"openai without key", Config{Provider: "openai"}, true, true, ""},
		{"ollama", Config{Provider: "ollama"}, false, false, "ollama"},
		{"unknown", Config{Provider: "anthropic"}, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantNil {
				if provider != nil {
					t.Errorf("Expected nil provider, got %v", provider)
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, provider.Name())
			}
		})
	}
}

func TestProxyFunc(t *testing.T) {
	proxy := proxyFunc("http://proxy.local:3128", "http://proxy.local:3129", "internal.local")

	tests := []struct {
		target string
		want   string
	}{
		{"http://api.example.com/v1", "http://proxy.local:3128"},
		{"https://api.example.com/v1", "http://proxy.local:3129"},
		{"https://internal.local/v1", ""},
	}

	for _, tt := range tests {
		u, _ := url.Parse(tt.target)
		got, err := proxy(&http.Request{URL: u})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("%s: expected proxy %q, got %q", tt.target, tt.want, gotStr)
		}
	}
}

func TestTimeoutOf(t *testing.T) {
	if got := timeoutOf(Config{}); got != 30*time.Second {
		t.Errorf("Expected 30s default, got %v", got)
	}
	if got := timeoutOf(Config{Timeout: 5}); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}
}
