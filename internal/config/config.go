package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	AllowedOrigin        string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	SuggestionTTLSeconds int
}

func Load() Config {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("SUGGESTION_TTL_SECONDS", "30"))
	if err != nil || ttl < 1 {
		ttl = 30
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		AllowedOrigin:        getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		SuggestionTTLSeconds: ttl,
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
