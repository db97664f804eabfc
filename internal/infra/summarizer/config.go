package summarizer

import (
	"fmt"
	"time"

	pkgconfig "hynews/pkg/config"
)

// Provider names accepted by SUMMARIZER_TYPE.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNoOp   = "noop"
)

// Config holds the settings shared by the model-backed summarizers.
type Config struct {
	// Model is the provider's model identifier.
	Model string

	// MaxTokens caps the reply length.
	MaxTokens int

	// Timeout bounds one Summarize call, retries included.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderClaude:
		return "claude-sonnet-4-5-20250929"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return ""
	}
}

// LoadConfig reads the settings for provider from the environment:
//
//   - CLAUDE_MODEL, OPENAI_MODEL, GEMINI_MODEL: model per provider
//   - SUMMARIZER_MAX_TOKENS: reply cap (default 2048)
//   - SUMMARIZER_TIMEOUT: per call (default 60s)
//   - SUMMARIZER_BASE_URL: endpoint override
func LoadConfig(provider string) (Config, error) {
	modelEnv := map[string]string{
		ProviderClaude: "CLAUDE_MODEL",
		ProviderOpenAI: "OPENAI_MODEL",
		ProviderGemini: "GEMINI_MODEL",
	}[provider]
	if modelEnv == "" {
		return Config{}, fmt.Errorf("unknown summarizer provider %q", provider)
	}

	cfg := Config{
		Model:     pkgconfig.GetEnvString(modelEnv, DefaultModel(provider)),
		MaxTokens: pkgconfig.GetEnvInt("SUMMARIZER_MAX_TOKENS", 2048),
		Timeout:   pkgconfig.GetEnvDuration("SUMMARIZER_TIMEOUT", 60*time.Second),
		BaseURL:   pkgconfig.GetEnvString("SUMMARIZER_BASE_URL", ""),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s summarizer configuration: %w", provider, err)
	}
	return cfg, nil
}
