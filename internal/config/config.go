package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	ModuleTopic  string
	StudentTopic string
	Port         string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env not loaded (ok for prod)")
	}
	return &Config{
		AppEnv:       getEnv("APP_ENV", "local"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ModuleTopic:  getEnv("MODULE_KAFKA_TOPIC", "module-events"),
		StudentTopic: getEnv("STUDENT_KAFKA_TOPIC", "student-events"),
		Port:         getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
