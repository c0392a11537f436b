package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SIMULATION_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "nl", cfg.Server.DefaultLocale)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "simulation.completed", cfg.Kafka.Topic)
	assert.Equal(t, 30*24*time.Hour, cfg.Estimates.CacheTTL)
	assert.Equal(t, 350.0, cfg.Insurance.BasePremium)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SIMULATION_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("ESTIMATE_CACHE_TTL", "1h")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")
	t.Setenv("INSURANCE_VALUE_RATE", "0.03")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Hour, cfg.Estimates.CacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize, "invalid ints fall back to the default")
	assert.Equal(t, 0.03, cfg.Insurance.ValueRate)
}
