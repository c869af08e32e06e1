// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	DatabasePath   string
	JWTSecretKey   string
	GoogleClientID string
	// QuoteProvider selects the reply text source: "dummyjson" or "openai".
	QuoteProvider string
	QuoteBaseURL  string
	OpenAIAPIKey  string
	ReplyDelay    time.Duration
	// AuthRateLimit caps login attempts per client IP per minute.
	AuthRateLimit int
	Environment   string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "quotechat.db"),
		JWTSecretKey:   getEnv("JWT_SECRET_KEY", ""),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		QuoteProvider:  getEnv("QUOTE_PROVIDER", "dummyjson"),
		QuoteBaseURL:   getEnv("QUOTE_BASE_URL", "https://dummyjson.com"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		ReplyDelay:     getEnvAsDuration("REPLY_DELAY", 3*time.Second),
		AuthRateLimit:  getEnvAsInt("AUTH_RATE_LIMIT", 10),
		Environment:    env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.GoogleClientID == "" {
			missing = append(missing, "GOOGLE_CLIENT_ID")
		}
		if cfg.QuoteProvider == "openai" && cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an env var as a Go duration string, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}
