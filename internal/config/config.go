package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Serve-mode auth
	DigestAPIKey string

	// Claude generation
	AnthropicAPIKey string
	AnthropicModel  string

	// Google Docs/Drive
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	DriveFolderID      string

	// Discord
	DiscordWebhookURL string

	// Wikimedia Commons
	WikimediaUserAgent string

	// Dispatch
	StyleBatchSize int

	// Serve mode
	MaxQueueSize int
	JobTTL       time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		DigestAPIKey: os.Getenv("DIGEST_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		DriveFolderID:      os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),

		WikimediaUserAgent: envOr("WIKIMEDIA_USER_AGENT",
			"OnThisDayDigest/1.0 (https://github.com/dgallion1/onthisday; history-digest-bot)"),

		StyleBatchSize: envInt("STYLE_BATCH_SIZE", 50),

		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 4),
		JobTTL:       envDuration("JOB_TTL", 24*time.Hour),
	}

	if cfg.StyleBatchSize <= 0 {
		cfg.StyleBatchSize = 50
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 4
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 24 * time.Hour
	}

	return cfg
}

// Validate checks the keys every publishing run needs. Serve mode additionally
// requires DIGEST_API_KEY, which the entry point checks when -serve is set.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.GoogleClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.GoogleRefreshToken == "" {
		return fmt.Errorf("GOOGLE_REFRESH_TOKEN is required")
	}
	if c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
