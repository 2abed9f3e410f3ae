package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.FrontendOrigin)
	assert.Equal(t, 5*time.Minute, cfg.Cache.AvailabilityTTL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.BookingsTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "agg-svc-consumer", cfg.Kafka.GroupID)
	assert.Equal(t, "8080", cfg.Gateway.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Gateway.APISvcURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("FRONTEND_ORIGIN", "https://book.example.com")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tables?sslmode=disable")
	t.Setenv("CACHE_AVAILABILITY_TTL", "90s")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, "https://book.example.com", cfg.Server.FrontendOrigin)
	assert.Equal(t, "postgres://u:p@db:5432/tables?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 90*time.Second, cfg.Cache.AvailabilityTTL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDatabaseConfig_DSNFromParts(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		Name:     "tablebooker",
		User:     "app",
		Password: "pw",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=tablebooker sslmode=disable", cfg.DSN())
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter(KafkaConfig{Broker: "kafka:9092"})
	defer writer.Close()

	assert.Empty(t, writer.Topic)
	assert.Equal(t, "kafka:9092", writer.Addr.String())
	assert.True(t, writer.AllowAutoTopicCreation)
}
