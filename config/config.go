package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"tablebooker/logging"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Gateway  GatewayConfig
	Log      logging.Config
}

type ServerConfig struct {
	Port            string
	FrontendOrigin  string
	PublicBaseURL   string
	UploadDir       string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Broker  string
	GroupID string
}

type AuthConfig struct {
	JWTSecret string
}

type CacheConfig struct {
	AvailabilityTTL time.Duration
	BookingsTTL     time.Duration
	RestaurantTTL   time.Duration
}

type GatewayConfig struct {
	Port      string
	APISvcURL string
	StaticDir string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("FRONTEND_ORIGIN", "http://localhost:3000")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "tablebooker")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKER", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_ID", "agg-svc-consumer")

	v.SetDefault("CACHE_AVAILABILITY_TTL", "5m")
	v.SetDefault("CACHE_BOOKINGS_TTL", "2m")
	v.SetDefault("CACHE_RESTAURANT_TTL", "10m")

	v.SetDefault("GATEWAY_PORT", "8080")
	v.SetDefault("API_SVC_URL", "http://localhost:5000")
	v.SetDefault("STATIC_DIR", "./frontend")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_ELK_INDEX", "tablebooker")
}

// Load reads config.yml from the working directory when present and lets
// environment variables override every key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			FrontendOrigin:  v.GetString("FRONTEND_ORIGIN"),
			PublicBaseURL:   v.GetString("PUBLIC_BASE_URL"),
			UploadDir:       v.GetString("UPLOAD_DIR"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Broker:  v.GetString("KAFKA_BROKER"),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Cache: CacheConfig{
			AvailabilityTTL: v.GetDuration("CACHE_AVAILABILITY_TTL"),
			BookingsTTL:     v.GetDuration("CACHE_BOOKINGS_TTL"),
			RestaurantTTL:   v.GetDuration("CACHE_RESTAURANT_TTL"),
		},
		Gateway: GatewayConfig{
			Port:      v.GetString("GATEWAY_PORT"),
			APISvcURL: v.GetString("API_SVC_URL"),
			StaticDir: v.GetString("STATIC_DIR"),
		},
		Log: logging.Config{
			Level:       v.GetString("LOG_LEVEL"),
			Format:      v.GetString("LOG_FORMAT"),
			ElkURL:      v.GetString("LOG_ELK_URL"),
			ElkIndex:    v.GetString("LOG_ELK_INDEX"),
			LogstashURL: v.GetString("LOG_LOGSTASH_URL"),
		},
	}

	if cfg.Server.Port == "" {
		return nil, errors.New("PORT must not be empty")
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value connection string
// assembled from the DB_* settings.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func MustInitPostgres(cfg DatabaseConfig) *sqlx.DB {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}

	return client
}

// NewKafkaReader returns a consumer-group reader subscribed to every topic.
func NewKafkaReader(cfg KafkaConfig, groupID string, topics ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Broker},
		GroupID:     groupID,
		GroupTopics: topics,
	})
}

// NewKafkaWriter returns a writer without a fixed topic. Every message names its own.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
