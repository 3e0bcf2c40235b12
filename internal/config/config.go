package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type JWTConfig struct {
	Secret string
	Expire time.Duration
}

type DatabaseConfig struct {
	URL      string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Server   ServerConfig
	JWT      JWTConfig
	Database DatabaseConfig
	RedisURL string
	Kafka    KafkaConfig
}

// Load reads configuration from a .env file, environment variables and
// defaults, in that order of precedence (env wins).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("GOALS_HOST", "0.0.0.0")
	viper.SetDefault("GOALS_PORT", "8080")
	viper.SetDefault("GOALS_READ_TIMEOUT", "15s")
	viper.SetDefault("GOALS_WRITE_TIMEOUT", "15s")
	viper.SetDefault("GOALS_IDLE_TIMEOUT", "60s")
	viper.SetDefault("GOALS_JWT_SECRET", "secret")
	viper.SetDefault("GOALS_JWT_EXPIRE", "24h")
	viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "password")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_DB", "goals")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "goals.activity")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("No .env file found, using environment variables and defaults")
	}

	jwtExpire, err := time.ParseDuration(viper.GetString("GOALS_JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid GOALS_JWT_EXPIRE: %w", err)
	}

	readTimeout, err := time.ParseDuration(viper.GetString("GOALS_READ_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GOALS_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(viper.GetString("GOALS_WRITE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GOALS_WRITE_TIMEOUT: %w", err)
	}
	idleTimeout, err := time.ParseDuration(viper.GetString("GOALS_IDLE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GOALS_IDLE_TIMEOUT: %w", err)
	}

	var brokers []string
	if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Host:         viper.GetString("GOALS_HOST"),
			Port:         viper.GetString("GOALS_PORT"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		JWT: JWTConfig{
			Secret: viper.GetString("GOALS_JWT_SECRET"),
			Expire: jwtExpire,
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetString("POSTGRES_PORT"),
			Name:     viper.GetString("POSTGRES_DB"),
		},
		RedisURL: viper.GetString("REDIS_URL"),
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
	}, nil
}
