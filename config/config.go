package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the backend base path used when QBANK_API_URL is unset
const DefaultAPIURL = "http://localhost:8000/api/v1"

// Config is the process configuration read from the environment
type Config struct {
	APIURL     string
	APITimeout time.Duration

	Port          string
	SessionSecret string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	MetadataCacheTTL time.Duration

	KafkaBrokers []string
	AuditTopic   string

	S3Bucket       string
	S3Region       string
	S3Profile      string
	S3Prefix       string
	S3UsePathStyle bool
}

// Load reads .env if present (missing file is fine) and then the environment
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only
func FromEnv() Config {
	return Config{
		APIURL:     getEnvOrDefault("QBANK_API_URL", DefaultAPIURL),
		APITimeout: getEnvSecondsOrDefault("QBANK_API_TIMEOUT_SECONDS", DefaultAPITimeout),

		Port:          getEnvOrDefault("PORT", "8080"),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", "qbank-dev-session-secret"),

		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:    os.Getenv("REDIS_PASS"),
		RedisDB:          getEnvIntOrDefault("REDIS_DB", 0),
		MetadataCacheTTL: getEnvSecondsOrDefault("METADATA_CACHE_TTL_SECONDS", DefaultMetadataCacheTTL),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   getEnvOrDefault("KAFKA_AUDIT_TOPIC", DefaultAuditTopic),

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3Prefix:       getEnvOrDefault("S3_PREFIX", "notes"),
		S3UsePathStyle: getEnvBool("S3_USE_PATH_STYLE"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvSecondsOrDefault(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func getEnvBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
