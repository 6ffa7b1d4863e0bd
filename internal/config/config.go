package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service needs. It is built once in main
// and handed to constructors; nothing else reads the environment.
type Config struct {
	ListenAddr      string
	DatabaseDSN     string
	RedisAddr       string
	AWSRegion       string
	Bucket          string
	CollectionID    string
	SenderAddress   string
	OperatorAddress string
	JWTSecret       string
	JWTAudience     string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=spotalert port=5432 sslmode=disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "redis:6379"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		Bucket:          getEnv("ALERT_BUCKET", "spotalert-uploads"),
		CollectionID:    getEnv("FACE_COLLECTION_ID", "spotalert-faces"),
		SenderAddress:   getEnv("SENDER_ADDRESS", "alerts@spotalert.example.com"),
		OperatorAddress: getEnv("OPERATOR_ADDRESS", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:     os.Getenv("JWT_AUDIENCE"),
	}

	if cfg.OperatorAddress == "" {
		return nil, fmt.Errorf("OPERATOR_ADDRESS is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
