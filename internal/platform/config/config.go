package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Currency settings
	BaseCurrency     string // all aggregation and reporting happens in this currency
	FallbackCurrency string // applied when input carries no currency

	// Rate feed
	RateFeedURL      string
	RateFetchTimeout time.Duration

	// AI extraction
	GeminiAPIKey string
	GeminiModel  string

	// Rate limiting, e.g. "100-M" for 100 requests/minute
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BASE_CURRENCY", "EUR")
	viper.SetDefault("FALLBACK_CURRENCY", "USD")
	viper.SetDefault("RATE_FEED_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.BaseCurrency = strings.ToUpper(viper.GetString("BASE_CURRENCY"))
	cfg.FallbackCurrency = strings.ToUpper(viper.GetString("FALLBACK_CURRENCY"))

	cfg.RateFeedURL = viper.GetString("RATE_FEED_URL")

	timeoutStr := viper.GetString("RATE_FETCH_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for RATE_FETCH_TIMEOUT (%q). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.RateFetchTimeout = timeout

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. AI extraction will rely on the SDK's environment configuration.")
	}
	cfg.GeminiModel = viper.GetString("GEMINI_MODEL")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
