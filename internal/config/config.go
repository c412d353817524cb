package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the ad board service.
type Config struct {
	ModerationSecret string
	SQLitePath       string
	ListenAddr       string
	PublicDir        string
	ResetInterval    time.Duration
	PhotoMaxBytes    int
	SnapshotLimit    int
	LogLevel         string
}

// Load reads configuration from environment variables, applying sane defaults.
// The moderation secret is the only hard requirement: the process refuses to
// start without it rather than fall back to a guessable value.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ModerationSecret: os.Getenv("MODERATION_SECRET"),
		SQLitePath:       getEnv("SQLITE_PATH", "./ads.db"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":3000"),
		PublicDir:        getEnv("PUBLIC_DIR", "./public"),
		ResetInterval:    time.Hour * time.Duration(getInt("RESET_INTERVAL_HOURS", 24)),
		PhotoMaxBytes:    getInt("PHOTO_MAX_BYTES", 2<<20),
		SnapshotLimit:    getInt("SNAPSHOT_LIMIT", 100),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var missing []string
	if cfg.ModerationSecret == "" {
		missing = append(missing, "MODERATION_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if cfg.ResetInterval <= 0 {
		return Config{}, fmt.Errorf("RESET_INTERVAL_HOURS must be positive")
	}
	if cfg.PhotoMaxBytes <= 0 {
		return Config{}, fmt.Errorf("PHOTO_MAX_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// loadEnvFile walks the usual candidate locations for a .env file. A missing
// file is fine (deployments pass variables directly); an unreadable one is not.
func loadEnvFile() error {
	candidates := []string{}
	if custom, ok := os.LookupEnv("CONFIG_ENV_PATH"); ok && custom != "" {
		candidates = append(candidates, custom)
	}
	candidates = append(candidates,
		filepath.Join("configs", ".env"),
		".env",
	)

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("access env file %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	return nil
}
