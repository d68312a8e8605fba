package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// Text generation (Groq, OpenAI-compatible API)
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Video generation backends
	RunwayAPIKey  string
	RunwayBaseURL string
	VeoAPIKey     string
	VeoBaseURL    string

	// Generation polling
	PollInterval    time.Duration
	PollMaxAttempts int

	// Supabase storage + realtime
	SupabaseURL           string
	SupabaseKey           string
	SupabaseStorageBucket string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_MODEL", "llama3-8b-8192"),

		RunwayAPIKey:  getEnv("RUNWAYML_API_KEY", ""),
		RunwayBaseURL: getEnv("RUNWAYML_API_BASE_URL", "https://api.runwayml.com/v1"),
		VeoAPIKey:     getEnv("VEO_API_KEY", ""),
		VeoBaseURL:    getEnv("VEO_API_BASE_URL", ""),

		PollInterval:    getEnvDuration("GENERATION_POLL_INTERVAL", 10*time.Second),
		PollMaxAttempts: getEnvInt("GENERATION_POLL_MAX_ATTEMPTS", 60),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseKey:           getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "video-projects"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.PollMaxAttempts <= 0 {
		return fmt.Errorf("GENERATION_POLL_MAX_ATTEMPTS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
