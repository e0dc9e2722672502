package llm

import (
	"fmt"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/config"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// FromConfig creates an LLM client from explicit configuration. When no
// provider is named, the configured Anthropic key wins, then the OpenAI key.
func FromConfig(cfg config.Config) (LLM, error) {
	provider := Provider(strings.ToLower(cfg.LLMProvider))
	if provider == "" {
		switch {
		case cfg.AnthropicKey != "":
			provider = ProviderClaude
		case cfg.OpenAIKey != "":
			provider = ProviderOpenAI
		default:
			return nil, fmt.Errorf("no LLM credentials configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
		}
	}

	switch provider {
	case ProviderClaude:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured")
		}
		if cfg.Model != "" {
			return NewClaudeWithModel(cfg.AnthropicKey, cfg.Model, cfg.ModelTimeout), nil
		}
		return NewClaude(cfg.AnthropicKey, cfg.ModelTimeout), nil

	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not configured")
		}
		if cfg.Model != "" {
			return NewOpenAIWithModel(cfg.OpenAIKey, cfg.Model, cfg.ModelTimeout), nil
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.ModelTimeout), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: claude, openai)", provider)
	}
}
