package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	Database         DatabaseConfig
	JWT              JWTConfig
	Kafka            KafkaConfig
	ExportSigningKey string
	TestMode         bool
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	Expire time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func Load() (*Config, error) {
	godotenv.Load()

	expire, err := time.ParseDuration(getEnv("JWT_EXPIRE", "24h"))
	if err != nil {
		return nil, err
	}

	brokersStr := os.Getenv("KAFKA_BROKERS")
	brokers := []string{}
	if brokersStr != "" {
		brokers = strings.Split(brokersStr, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expire: expire,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   getEnv("KAFKA_TOPIC", "notifications"),
		},
		ExportSigningKey: getEnv("EXPORT_SIGNING_KEY", ""),
		TestMode:         getEnv("TEST_MODE", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
