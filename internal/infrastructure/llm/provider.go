package llm

import (
	"context"
	"fmt"
	"strings"

	"ContentWriter/internal/config"
	"ContentWriter/internal/ports"
)

// New selects the completion backend named by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (ports.Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai", "chatgpt":
		return NewChatGPTClient(cfg.OpenAI), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
