package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	DBName            string
	UploadsCollection string
	PostsCollection   string
	MongoTimeout      time.Duration

	UploadDir         string
	AllowedExtensions []string
	MaxUploadSize     int64
	FixtureFile       string

	Port    string
	GinMode string
	LogFile string

	// Rate limiting. Redis is optional; without it limits are kept in-process.
	RateLimitReqs   int
	RateLimitWindow int
	RedisURL        string
	RedisPassword   string
	RedisDB         int

	// OpenTelemetry
	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:          getEnv("MONGO_URI", ""),
		DBName:            getEnv("DB_NAME", "geodata_db"),
		UploadsCollection: getEnv("UPLOADS_COLLECTION", "uploads"),
		PostsCollection:   getEnv("POSTS_COLLECTION", "social_media_posts"),
		MongoTimeout:      time.Duration(getEnvInt("MONGO_TIMEOUT", 10)) * time.Second,

		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif")),
		MaxUploadSize:     getEnvInt64("MAX_UPLOAD_SIZE", 33554432), // 32MB
		FixtureFile:       getEnv("FIXTURE_FILE", "data/social_media_posts_dummy_data.json"),

		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", "debug"),
		LogFile: getEnv("LOG_FILE", ""),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat64("OTEL_SAMPLE_RATIO", 0.1),
	}

	// Validate required fields
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required - set it in .env file")
	}

	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}

	return cfg, nil
}

// splitList turns "png, JPG,,gif" into ["png" "jpg" "gif"].
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		part = strings.TrimPrefix(part, ".")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
