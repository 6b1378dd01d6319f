package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - all environment-driven settings in one place
type Config struct {
	// Redis (optional - enables the async job queue and the durable credential slot)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase (optional - enables the poster archive)
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Gemini API
	GeminiAPIKey     string   // seed for the credential slot, may be empty
	GeminiExtraKeys  []string // fallback keys for rate-limit retry
	GeminiTextModel  string
	GeminiImageModel string

	// Workflow
	FinalizeDelay time.Duration // UX pacing hold before a run completes

	// Server
	Port string
}

var globalConfig *Config

// LoadConfig - load environment variables (with .env support)
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	finalizeDelay := 800 * time.Millisecond
	if delayStr := os.Getenv("FINALIZE_DELAY_MS"); delayStr != "" {
		if parsed, err := strconv.Atoi(delayStr); err == nil && parsed >= 0 {
			finalizeDelay = time.Duration(parsed) * time.Millisecond
		}
	}

	// GEMINI_EXTRA_KEYS is a comma separated list of fallback keys
	var extraKeys []string
	for _, key := range strings.Split(os.Getenv("GEMINI_EXTRA_KEYS"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			extraKeys = append(extraKeys, key)
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		// Gemini API
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiExtraKeys:  extraKeys,
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		// Workflow
		FinalizeDelay: finalizeDelay,

		// Server
		Port: getEnv("PORT", "8080"),
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Text model: %s", globalConfig.GeminiTextModel)
	log.Printf("   Image model: %s", globalConfig.GeminiImageModel)
	if globalConfig.RedisEnabled() {
		log.Printf("   Redis: %s (TLS: %v)", globalConfig.GetRedisAddr(), globalConfig.RedisUseTLS)
	} else {
		log.Println("   Redis: disabled (job queue and durable credential slot off)")
	}
	if globalConfig.ArchiveEnabled() {
		log.Printf("   Archive: %s", globalConfig.SupabaseURL)
	} else {
		log.Println("   Archive: disabled")
	}

	return globalConfig, nil
}

// GetConfig - fetch the loaded configuration
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - reject partially configured optional backends
func (c *Config) validate() error {
	if c.SupabaseURL != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required when SUPABASE_URL is set")
	}
	if c.SupabaseServiceKey != "" && c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required when SUPABASE_SERVICE_KEY is set")
	}
	return nil
}

// RedisEnabled - Redis is optional; absence only disables queue/credential persistence
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// ArchiveEnabled - poster archive requires a full Supabase configuration
func (c *Config) ArchiveEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// getEnv - read an environment variable with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRedisAddr - Redis connection address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
