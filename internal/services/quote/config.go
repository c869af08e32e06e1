package quote

import (
	"fmt"
	"time"
)

type Config struct {
	// DummyJSON configuration
	BaseURL string

	// Optional OpenAI-backed provider configuration
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("QUOTE_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://dummyjson.com",
		OpenAIModel: "gpt-4o-mini",
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		RetryDelay:  500 * time.Millisecond,
	}
}
