package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode  string // Set via flag, not env
	AppEnv   string
	LogLevel string

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	ApiPort            string
	ServiceApiPort     string
	CorsAllowedOrigins []string

	// Invoicing
	EnforceDiscountCap bool
	CartTTL            time.Duration
	CatalogCacheTTL    time.Duration

	// Shop details printed on invoices
	ShopName    string
	ShopAddress string

	// AWS S3 (invoice archive)
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// ArchiveEnabled reports whether rendered invoices are pushed to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.AwsS3Bucket != ""
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "invoices")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.AppEnv = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.ApiPort = getEnv("API_PORT", "5050")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.CorsAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if err := validateOrigins(cfg.CorsAllowedOrigins); err != nil {
		return nil, fmt.Errorf("invalid CORS_ALLOWED_ORIGINS: %w", err)
	}
	cfg.ShopName = getEnv("SHOP_NAME", "ABC SHOP")
	cfg.ShopAddress = getEnv("SHOP_ADDRESS", "1/2 Dhanmondi, Dhaka")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.EnforceDiscountCap, err = strconv.ParseBool(getEnv("ENFORCE_DISCOUNT_CAP", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENFORCE_DISCOUNT_CAP: %w", err)
	}

	cartTTLSeconds, err := strconv.ParseInt(getEnv("CART_TTL_SECONDS", "1800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CART_TTL_SECONDS: %w", err)
	}
	if cartTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid CART_TTL_SECONDS: must be positive, got %d", cartTTLSeconds)
	}
	cfg.CartTTL = time.Duration(cartTTLSeconds) * time.Second

	catalogTTLSeconds, err := strconv.ParseInt(getEnv("CATALOG_CACHE_TTL_SECONDS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL_SECONDS: %w", err)
	}
	cfg.CatalogCacheTTL = time.Duration(catalogTTLSeconds) * time.Second

	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	if cfg.RateLimitBucketSize < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: must be at least 1, got %d", cfg.RateLimitBucketSize)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}
	if cfg.RateLimitRefillRate < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: must be at least 1, got %d", cfg.RateLimitRefillRate)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateOrigins accepts "*" on its own or absolute http(s) origins.
// cors.New panics on anything else.
func validateOrigins(origins []string) error {
	for _, o := range origins {
		if o == "*" {
			if len(origins) > 1 {
				return fmt.Errorf("\"*\" cannot be combined with other origins")
			}
			continue
		}
		u, err := url.Parse(o)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%q is not an http(s) origin", o)
		}
	}
	return nil
}
