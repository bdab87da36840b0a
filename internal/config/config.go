package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	DataDir        string
	RedisURL       string
	MongoURI       string
	MongoDBName    string
	PostgresURL    string
	AMQPURL        string
	BackupDir      string
	JWTSecret      string
	AccessTokenTTL time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		DataDir:        getEnvOrDefault("DATA_DIR", "./data"),
		RedisURL:       getEnvOrDefault("REDIS_URL", ""),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		MongoDBName:    getEnvOrDefault("DB_NAME", "oventreats"),
		PostgresURL:    getEnvOrDefault("POSTGRES_URL", ""),
		AMQPURL:        getEnvOrDefault("AMQP_URL", ""),
		BackupDir:      getEnvOrDefault("BACKUP_DIR", "./backups"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 12, time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
