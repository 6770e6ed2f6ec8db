package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	SessionSecret string

	// SMTP relay
	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string

	// Fixed manager address copied on every submission notification.
	ManagerEmail string

	// Seed values for the single admin account (DB_SEED=1).
	AdminEmail           string
	AdminInitialPassword string

	OutboxInterval time.Duration
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:requestflow.db")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.EmailHost = getEnv("EMAIL_HOST", "smtp.gmail.com")
	cfg.EmailPort = getEnvInt("EMAIL_PORT", 465)
	cfg.EmailUser = os.Getenv("EMAIL_USER")
	cfg.EmailPass = os.Getenv("EMAIL_PASS")
	cfg.ManagerEmail = getEnv("MANAGER_EMAIL", "manager@requestflow.local")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@requestflow.local")
	cfg.AdminInitialPassword = getEnv("ADMIN_INITIAL_PASSWORD", "changeme")
	cfg.OutboxInterval = getEnvDuration("OUTBOX_INTERVAL", 5*time.Second)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
