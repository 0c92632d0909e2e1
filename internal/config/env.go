package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MERGE2048_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides storage and server settings from MERGE2048_* variables.
// Unparseable durations are ignored.
func ApplyEnv(cfg *Config) {
	cfg.Storage.Backend = strings.ToLower(getEnv("STORE", cfg.Storage.Backend))
	cfg.Storage.SQLitePath = getEnv("DB", cfg.Storage.SQLitePath)
	cfg.Storage.RedisURL = getEnv("REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.RedisPrefix = getEnv("REDIS_PREFIX", cfg.Storage.RedisPrefix)
	cfg.Server.Address = getEnv("SSH_ADDR", cfg.Server.Address)
	cfg.Server.HostKey = getEnv("HOST_KEY", cfg.Server.HostKey)
	cfg.Server.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", cfg.Server.IdleTimeout)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
