package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, built from the environment.
type Config struct {
	Server    Server
	Log       LogConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Gemini    GeminiConfig
	Estimates EstimatesConfig
	Insurance InsuranceConfig
	RefData   RefDataConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	DefaultLocale string
}

type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// PostgresConfig holds the database DSN. An empty DSN runs the service on
// in-memory stores seeded from RefData.File.
type PostgresConfig struct {
	DSN string
}

// RedisConfig configures the estimate cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures run event publishing. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GeminiConfig configures AI-grounded value and spec estimation. Without an
// API key the static estimator is used.
type GeminiConfig struct {
	APIKey string
	Model  string
}

type EstimatesConfig struct {
	CacheTTL                time.Duration
	CircuitFailureThreshold int
	CircuitSuccessThreshold int
	// NewPriceBaseline feeds the static estimator when no AI is configured.
	NewPriceBaseline float64
}

type InsuranceConfig struct {
	BasePremium float64
	ValueRate   float64
}

type RefDataConfig struct {
	File string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOrDefault("SIMULATION_ADDR", ":8080"),
			DefaultLocale: envOrDefault("DEFAULT_LOCALE", "nl"),
		},
		Log: LogConfig{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "json"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envOrDefaultInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envOrDefaultInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envOrDefaultDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envOrDefaultDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envOrDefaultDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envOrDefault("KAFKA_SIMULATION_TOPIC", "simulation.completed"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Estimates: EstimatesConfig{
			CacheTTL:                envOrDefaultDuration("ESTIMATE_CACHE_TTL", 30*24*time.Hour),
			CircuitFailureThreshold: envOrDefaultInt("ESTIMATE_CIRCUIT_FAILURES", 5),
			CircuitSuccessThreshold: envOrDefaultInt("ESTIMATE_CIRCUIT_SUCCESSES", 3),
			NewPriceBaseline:        envOrDefaultFloat("ESTIMATE_NEW_PRICE_BASELINE", 30000),
		},
		Insurance: InsuranceConfig{
			BasePremium: envOrDefaultFloat("INSURANCE_BASE_PREMIUM", 350),
			ValueRate:   envOrDefaultFloat("INSURANCE_VALUE_RATE", 0.025),
		},
		RefData: RefDataConfig{
			File: envOrDefault("REFDATA_FILE", "testdata/refdata.yaml"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
