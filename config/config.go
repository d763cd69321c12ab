package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the textbin service
type Config struct {
	Port        int    `json:"port"`
	StorageType string `json:"storage_type"` // "mongo", "dynamo", "memory"

	MongoURL      string `json:"mongo_url"`
	MongoDatabase string `json:"mongo_database"`
	DynamoTable   string `json:"dynamo_table"`
	AWSRegion     string `json:"aws_region"`

	IDLength      int    `json:"id_length"`
	IDAlphabet    string `json:"id_alphabet"`
	IDMaxAttempts int    `json:"id_max_attempts"`

	MaxContentLength     int `json:"max_content_length"`
	MaxTitleLength       int `json:"max_title_length"`
	MaxSyntaxLength      int `json:"max_syntax_length"`
	MaxExpirationMinutes int `json:"max_expiration_minutes"`
	MaxViewsLimit        int `json:"max_views_limit"`

	RateLimitWindow   time.Duration `json:"rate_limit_window"`
	RateLimitMax      int           `json:"rate_limit_max"`
	CreateLimitWindow time.Duration `json:"create_limit_window"`
	CreateLimitMax    int           `json:"create_limit_max"`
	TrustProxy        bool          `json:"trust_proxy"`

	Version    string `json:"version"`
	BuildTime  string `json:"build_time"`
	CommitHash string `json:"commit_hash"`
}

// DefaultConfig returns a configuration with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		StorageType: "mongo",

		MongoURL:      "mongodb://localhost:27017",
		MongoDatabase: "textbin",
		DynamoTable:   "textbin-pastes",
		AWSRegion:     "us-east-1",

		IDLength:      8,
		IDAlphabet:    "", // empty means the generator default
		IDMaxAttempts: 5,

		MaxContentLength:     512000,
		MaxTitleLength:       255,
		MaxSyntaxLength:      50,
		MaxExpirationMinutes: 525600, // 1 year
		MaxViewsLimit:        1000000,

		RateLimitWindow:   15 * time.Minute,
		RateLimitMax:      100,
		CreateLimitWindow: time.Minute,
		CreateLimitMax:    10,
		TrustProxy:        false,
	}
}

// LoadConfig loads configuration from CLI flags with environment variable
// defaults. Call once from main.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	flag.IntVar(&cfg.Port, "port", getEnvInt("TEXTBIN_PORT", cfg.Port), "Port to listen on")
	flag.StringVar(&cfg.StorageType, "storage", getEnvString("TEXTBIN_STORAGE", cfg.StorageType), "Storage backend: mongo, dynamo, memory")
	flag.StringVar(&cfg.MongoURL, "mongo-url", getEnvString("TEXTBIN_MONGO_URL", cfg.MongoURL), "MongoDB connection URL")
	flag.StringVar(&cfg.MongoDatabase, "mongo-db", getEnvString("TEXTBIN_MONGO_DB", cfg.MongoDatabase), "MongoDB database name")
	flag.StringVar(&cfg.DynamoTable, "dynamo-table", getEnvString("TEXTBIN_DYNAMO_TABLE", cfg.DynamoTable), "DynamoDB table name")
	flag.StringVar(&cfg.AWSRegion, "aws-region", getEnvString("TEXTBIN_AWS_REGION", cfg.AWSRegion), "AWS region for DynamoDB")
	flag.IntVar(&cfg.IDLength, "id-length", getEnvInt("TEXTBIN_ID_LENGTH", cfg.IDLength), "Length of generated paste IDs")
	flag.IntVar(&cfg.IDMaxAttempts, "id-max-attempts", getEnvInt("TEXTBIN_ID_MAX_ATTEMPTS", cfg.IDMaxAttempts), "ID generation attempts before giving up")
	flag.IntVar(&cfg.MaxContentLength, "max-content", getEnvInt("TEXTBIN_MAX_CONTENT", cfg.MaxContentLength), "Maximum paste content length in characters")
	flag.DurationVar(&cfg.RateLimitWindow, "rate-window", getEnvDuration("TEXTBIN_RATE_WINDOW", cfg.RateLimitWindow), "General rate limit window")
	flag.IntVar(&cfg.RateLimitMax, "rate-max", getEnvInt("TEXTBIN_RATE_MAX", cfg.RateLimitMax), "Requests allowed per rate limit window")
	flag.DurationVar(&cfg.CreateLimitWindow, "create-window", getEnvDuration("TEXTBIN_CREATE_WINDOW", cfg.CreateLimitWindow), "Paste creation rate limit window")
	flag.IntVar(&cfg.CreateLimitMax, "create-max", getEnvInt("TEXTBIN_CREATE_MAX", cfg.CreateLimitMax), "Creations allowed per creation window")
	flag.BoolVar(&cfg.TrustProxy, "trust-proxy", getEnvBool("TEXTBIN_TRUST_PROXY", cfg.TrustProxy), "Trust X-Forwarded-For for client IPs")
	flag.Parse()

	return cfg
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
