package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ContentWriter/internal/config"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

// ChatGPTClient implements ports.Completer backed by OpenAI-compatible chat completion APIs.
type ChatGPTClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Completer = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
// Per-call timeouts come from the prompt, so the HTTP client only carries a ceiling.
func NewChatGPTClient(cfg config.OpenAIConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete posts the prompt as a single user message and returns the first choice.
func (c *ChatGPTClient) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	if c == nil || strings.TrimSpace(c.apiKey) == "" {
		return "", domain.ErrNotConfigured
	}
	if c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("chatgpt client misconfigured: %w", domain.ErrNotConfigured)
	}

	if prompt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, prompt.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt.Text}},
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.BackendError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &domain.BackendError{Status: resp.StatusCode, Message: err.Error()}
	}

	var decoded chatResponse
	decodeErr := json.Unmarshal(raw, &decoded)
	if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
		return "", &domain.BackendError{Status: resp.StatusCode, Message: decoded.Error.Message}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &domain.BackendError{Status: resp.StatusCode, Message: strings.TrimSpace(string(truncate(raw, 1024)))}
	}
	if decodeErr != nil || len(decoded.Choices) == 0 {
		return "", &domain.BackendError{Status: resp.StatusCode, Message: "Invalid response from OpenAI API"}
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", &domain.BackendError{Status: resp.StatusCode, Message: "Empty response from OpenAI API"}
	}
	return text, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
