package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	devAccessSecret  = "dev-secret"
	devRefreshSecret = "refresh-secret"
)

type Config struct {
	AppEnv     string
	ServerPort int

	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte

	KafkaBrokers []string

	ESURL        string
	ESUser       string
	ESPassword   string
	ProductIndex string

	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}

	cfg := &Config{
		AppEnv:     envDefault("APP_ENV", "development"),
		ServerPort: envIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),

		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		ProductIndex: envDefault("PRODUCT_INDEX", "products"),

		LogLevel: os.Getenv("LOG_LEVEL"),
	}

	if err := cfg.fillSecrets(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fillSecrets substitutes the fixed development secrets only when APP_ENV is
// "development". Anywhere else a missing secret is a startup error: the
// defaults are guessable and must never reach production.
func (c *Config) fillSecrets() error {
	if len(c.JWTSecret) == 0 {
		if c.AppEnv != "development" {
			return fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", c.AppEnv)
		}
		log.Printf("warning: JWT_SECRET is not set, falling back to the development secret")
		c.JWTSecret = []byte(devAccessSecret)
	}
	if len(c.RefreshSecret) == 0 {
		if c.AppEnv != "development" {
			return fmt.Errorf("JWT_REFRESH_SECRET is required when APP_ENV=%s", c.AppEnv)
		}
		log.Printf("warning: JWT_REFRESH_SECRET is not set, falling back to the development secret")
		c.RefreshSecret = []byte(devRefreshSecret)
	}
	return nil
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
