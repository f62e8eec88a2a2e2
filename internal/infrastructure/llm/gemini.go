package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ContentWriter/internal/config"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

// GeminiClient implements ports.Completer on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ ports.Completer = (*GeminiClient)(nil)

// NewGeminiClient creates the underlying genai client. A missing API key yields a client
// whose calls fail with domain.ErrNotConfigured.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &GeminiClient{model: cfg.Model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// Complete sends the prompt as a single user turn.
func (g *GeminiClient) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	if g == nil || g.client == nil {
		return "", domain.ErrNotConfigured
	}

	if prompt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, prompt.Timeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(prompt.Temperature)),
	}
	if prompt.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(prompt.MaxTokens)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt.Text, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", &domain.BackendError{Message: err.Error()}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &domain.BackendError{Message: "Empty response from Gemini API"}
	}
	return text, nil
}
