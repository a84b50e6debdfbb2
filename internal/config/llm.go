package config

import (
	"fmt"
	"os"
	"time"
)

// LLMConfig configures the chat-completion backend used for parsing and
// fallback generation.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"` // openai-compatible
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	APIKeyEnv string        `mapstructure:"api_key_env"` // consulted when api_key is empty
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// ResolveEnvVars fills APIKey from APIKeyEnv when it is not set directly.
func (c *LLMConfig) ResolveEnvVars() {
	if c.APIKey == "" && c.APIKeyEnv != "" {
		c.APIKey = os.Getenv(c.APIKeyEnv)
	}
}

// Validate checks the fields needed to build a client. A missing API key is
// allowed; calls will fail and the pipeline degrades to zero candidates.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case "openai-compatible", "openai":
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("llm: base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm: timeout must be positive")
	}
	return nil
}
