package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port         string        `yaml:"port" env:"PORT" env-default:"3000"`
	DBPath       string        `yaml:"db_path" env:"DB_PATH" env-default:"./book_donation.db"`
	UploadDir    string        `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"public/uploads"`
	UploadMaxMB  int64         `yaml:"upload_max_mb" env:"UPLOAD_MAX_MB" env-default:"10"`
	ImageWidth   uint          `yaml:"image_max_width" env:"IMAGE_MAX_WIDTH" env-default:"800"`
	SessionDir   string        `yaml:"session_dir" env:"SESSION_DIR" env-default:"./data/sessions"`
	CookieDomain string        `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogJSON      bool          `yaml:"log_json" env:"LOG_JSON" env-default:"false"`
	LoginWindow  time.Duration `yaml:"login_rate_window" env:"LOGIN_RATE_WINDOW" env-default:"1s"`

	// Base64 encoded, at least 32 bytes once decoded.
	RawCSRFKey    string `yaml:"csrf_key" env:"CSRF_KEY"`
	RawSessionKey string `yaml:"session_key" env:"SESSION_KEY"`

	CSRFKey    []byte `yaml:"-"`
	SessionKey []byte `yaml:"-"`
}

// LoadConfig reads the YAML file at path when one is given, then applies the
// environment on top of it.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid port %q", cfg.Port)
	}
	if cfg.UploadMaxMB <= 0 {
		return nil, fmt.Errorf("upload_max_mb must be positive, got %d", cfg.UploadMaxMB)
	}

	cfg.CSRFKey = decodeKey("CSRF_KEY", cfg.RawCSRFKey)
	cfg.SessionKey = decodeKey("SESSION_KEY", cfg.RawSessionKey)
	return cfg, nil
}

// decodeKey falls back to a random key when the configured one is missing or
// too short. Sessions and CSRF tokens then do not survive a restart.
func decodeKey(name, raw string) []byte {
	if raw == "" {
		slog.Warn(name + " not set. Generating a random key for development. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) < 32 {
		slog.Warn(name + " is invalid or shorter than 32 bytes. Generating a random key for development.")
		return generateRandomBytes(32)
	}
	return key
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return b
}
