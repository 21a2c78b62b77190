package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultAppTokenSecret is the fallback signing secret for local
// development. Running with it in production is a deployment error; Load
// warns whenever it is in use.
const DefaultAppTokenSecret = "insecure-dev-secret-do-not-deploy"

// Config holds the application configuration
type Config struct {
	Port              string        // Service port
	DatabaseURL       string        // Postgres connection string
	AppTokenSecret    string        // Secret for signing application session tokens
	AppTokenIssuer    string        // Session token issuer claim
	AppTokenTTL       time.Duration // Session token TTL
	ProviderBaseURL   string        // Wallet provider API base URL
	ProviderAPIKey    string        // Wallet provider API key
	ProviderPublicKey string        // PEM-encoded public key for provider credential verification
	ReferralBaseURL   string        // Base URL for referral links
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:              getEnv("PORT", "8888"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AppTokenSecret:    getEnv("APP_JWT_SECRET", DefaultAppTokenSecret),
		AppTokenIssuer:    getEnv("APP_TOKEN_ISSUER", "wallet-bridge"),
		AppTokenTTL:       30 * time.Minute,
		ProviderBaseURL:   getEnv("PROVIDER_BASE_URL", "https://api.turnkey.com"),
		ProviderAPIKey:    getEnv("PROVIDER_API_KEY", ""),
		ProviderPublicKey: getEnv("PROVIDER_PUBLIC_KEY", ""),
		ReferralBaseURL:   getEnv("REFERRAL_BASE_URL", ""),
	}

	// Parse APP_TOKEN_TTL if provided
	if ttlStr := os.Getenv("APP_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_TOKEN_TTL format: %w", err)
		}
		config.AppTokenTTL = duration
	}

	if config.AppTokenSecret == DefaultAppTokenSecret {
		slog.Warn("APP_JWT_SECRET is not set, sessions are signed with the insecure development default")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.AppTokenSecret == "" {
		return fmt.Errorf("APP_JWT_SECRET cannot be empty")
	}

	if c.AppTokenTTL <= 0 {
		return fmt.Errorf("APP_TOKEN_TTL must be positive")
	}

	if c.ProviderPublicKey == "" {
		return fmt.Errorf("PROVIDER_PUBLIC_KEY cannot be empty")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
