package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	TranslatorBaseURL string
	TranslatorAPIKey  string
	TranslatorRPM     int

	APIToken      string
	RechargeToken string

	PollInterval time.Duration
	BlockSeconds int
	CostPerBlock float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		TranslatorBaseURL: getEnv("TRANSLATOR_BASE_URL", "https://api-free.deepl.com"),
		TranslatorAPIKey:  os.Getenv("TRANSLATOR_API_KEY"),
		TranslatorRPM:     getEnvInt("TRANSLATOR_RATE_LIMIT_RPM", 0),

		APIToken:      os.Getenv("API_TOKEN"),
		RechargeToken: os.Getenv("RECHARGE_SECRET_TOKEN"),

		PollInterval: getEnvDuration("POLL_INTERVAL", 10*time.Second),
		BlockSeconds: getEnvInt("CREDIT_BLOCK_SECONDS", 900),
		CostPerBlock: getEnvFloat("CREDIT_COST_PER_BLOCK", 0.5),
	}
}

// Validate enforces settings that must be present before the process may
// serve traffic or process jobs. A validation failure is fatal at startup.
func (c Config) Validate() error {
	if c.Env == "production" {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(c.RechargeToken) == "" {
			return fmt.Errorf("RECHARGE_SECRET_TOKEN is required in production")
		}
		if strings.TrimSpace(c.TranslatorAPIKey) == "" {
			return fmt.Errorf("TRANSLATOR_API_KEY is required in production")
		}
	}
	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.BlockSeconds <= 0 {
		return fmt.Errorf("CREDIT_BLOCK_SECONDS must be positive")
	}
	if c.CostPerBlock <= 0 {
		return fmt.Errorf("CREDIT_COST_PER_BLOCK must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
