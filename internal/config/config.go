// Package config loads runtime settings from a .env file and the
// environment. Every knob has a development-friendly default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "clipfeed.db"
	defaultUploadDir    = "./uploads"
	defaultStaticBase   = "/uploads"
	defaultMaxUploadMB  = 50
	defaultAllowedTypes = "video/mp4,video/webm"
)

type Config struct {
	Port           string
	DatabaseURL    string
	UploadDir      string
	StaticBase     string
	MaxUploadBytes int64
	AllowedTypes   map[string]bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		UploadDir:   getEnv("UPLOAD_DIR", defaultUploadDir),
		StaticBase:  strings.TrimRight(getEnv("STATIC_BASE", defaultStaticBase), "/"),
	}

	maxMB, err := parseIntEnv("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	if maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20

	cfg.AllowedTypes = map[string]bool{}
	for _, t := range strings.Split(getEnv("ALLOWED_VIDEO_TYPES", defaultAllowedTypes), ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cfg.AllowedTypes[t] = true
		}
	}
	if len(cfg.AllowedTypes) == 0 {
		return nil, fmt.Errorf("ALLOWED_VIDEO_TYPES must not be empty")
	}

	return cfg, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(getEnv(name, strconv.Itoa(fallback)))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	return v, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
