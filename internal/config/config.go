package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const appName = "sixtyseconds"

type AppConfig struct {
	// APIURL is the digest endpoint; empty selects the public 60s API.
	APIURL string

	// HTTPTimeout bounds every outbound fetch.
	HTTPTimeout time.Duration

	// HTTP response caching for the upstream API.
	HTTPCache    bool
	HTTPCacheDir string // empty = in-memory cache

	// SettingsPath is the YAML file holding the plugin settings.
	SettingsPath string

	// Location is the time zone cron expressions are evaluated in.
	Location *time.Location

	LogLevel log.Level

	TelegramToken  string
	TelegramChatID int64

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.APIURL = os.Getenv("SIXTY_SECONDS_API_URL")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.HTTPCache = getenvBool("HTTP_CACHE", true)
	cfg.HTTPCacheDir = os.Getenv("HTTP_CACHE_DIR")

	cfg.SettingsPath = getenvDefault("SETTINGS_PATH", DefaultSettingsPath())

	loc, err := time.LoadLocation(getenvDefault("TZ", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}
	cfg.Location = loc

	level, err := log.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// DefaultSettingsPath returns the settings file under the XDG config directory.
func DefaultSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "settings.yaml")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
