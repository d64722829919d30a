package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/algomentor/backend/internal/config"
)

// NewProvider creates a Provider from configuration. Remote providers are
// wrapped with the offline fallback; a missing API key degrades the choice
// to the offline provider instead of failing startup.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("OPENAI_API_KEY not set, running with the offline provider")
			return NewOfflineProvider(), nil
		}
		p, err := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIEmbedModel)
		if err != nil {
			return nil, fmt.Errorf("initializing openai provider: %w", err)
		}
		return WithFallback(p), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Println("GEMINI_API_KEY not set, running with the offline provider")
			return NewOfflineProvider(), nil
		}
		p, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiChatModel, cfg.GeminiEmbedModel)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini provider: %w", err)
		}
		return WithFallback(p), nil
	case "offline":
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
}
