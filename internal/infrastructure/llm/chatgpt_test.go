package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ContentWriter/internal/config"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

func TestChatGPTCompleteSendsSingleUserMessage(t *testing.T) {
	t.Parallel()

	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  optimized text  "}}]}`))
	}))
	defer srv.Close()

	client := NewChatGPTClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "gpt-test", APIKey: "sk-test"})
	text, err := client.Complete(context.Background(), ports.Prompt{Text: "hello", MaxTokens: 2000, Temperature: 0.3, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "optimized text" {
		t.Fatalf("unexpected text: %q", text)
	}
	if got.Model != "gpt-test" || got.MaxTokens != 2000 || got.Temperature != 0.3 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "hello" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestChatGPTCompleteSurfacesErrorEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	client := NewChatGPTClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m", APIKey: "bad"})
	_, err := client.Complete(context.Background(), ports.Prompt{Text: "x"})

	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.Message != "Incorrect API key provided" || backendErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %+v", backendErr)
	}
}

func TestChatGPTCompleteWithoutKey(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewChatGPTClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m"})
	if _, err := client.Complete(context.Background(), ports.Prompt{Text: "x"}); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no request should be sent without a key")
	}
}

func TestChatGPTCompleteRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewChatGPTClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"})
	_, err := client.Complete(context.Background(), ports.Prompt{Text: "x"})
	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) || backendErr.Message != "Invalid response from OpenAI API" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChatGPTCompleteHonoursTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewChatGPTClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"})
	_, err := client.Complete(context.Background(), ports.Prompt{Text: "x", Timeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestGeminiWithoutKeyIsNotConfigured(t *testing.T) {
	t.Parallel()

	client, err := NewGeminiClient(context.Background(), config.GeminiConfig{Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("NewGeminiClient returned error: %v", err)
	}
	if _, err := client.Complete(context.Background(), ports.Prompt{Text: "x"}); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	t.Parallel()

	c, err := New(context.Background(), config.LLMConfig{Provider: "openai"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := c.(*ChatGPTClient); !ok {
		t.Fatalf("expected ChatGPTClient, got %T", c)
	}
	if _, err := New(context.Background(), config.LLMConfig{Provider: "mystery"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
