package conversation

import (
	"fmt"
	"time"
)

type Config struct {
	// ReplyDelay is the authoritative server-side delay before the automatic
	// bot reply is produced.
	ReplyDelay time.Duration

	DefaultPageSize int
	MaxPageSize     int
}

func (c *Config) Validate() error {
	if c.ReplyDelay < 0 {
		return fmt.Errorf("reply delay must not be negative")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive")
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max page size must be at least the default page size")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ReplyDelay:      3 * time.Second,
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}
}
