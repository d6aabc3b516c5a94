package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	TokenKey          []byte
	AdminLogin        string
	AdminPasswordHash string

	RateLimit float64
	RateBurst int

	LogLevel slog.Level

	BotToken string
}

// Load reads .env files (if present) into the environment and builds a Config.
// Variables already set in the environment take precedence over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:              getenv("ADDR", ":8080"),
		TLSCert:           os.Getenv("TLS_CERT"),
		TLSKey:            os.Getenv("TLS_KEY"),
		TokenKey:          []byte(os.Getenv("TOKEN_KEY")),
		AdminLogin:        strings.TrimSpace(os.Getenv("ADMIN_LOGIN")),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		BotToken:          os.Getenv("TOKEN_BOT"),
	}

	var err error
	if cfg.RateLimit, err = strconv.ParseFloat(getenv("RATE_LIMIT", "5"), 64); err != nil || cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT %q", os.Getenv("RATE_LIMIT"))
	}
	if cfg.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "10")); err != nil || cfg.RateBurst <= 0 {
		return Config{}, fmt.Errorf("invalid RATE_BURST %q", os.Getenv("RATE_BURST"))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c Config) ValidateServer() error {
	if len(c.TokenKey) == 0 {
		return errors.New("TOKEN_KEY environment variable is not set")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return nil
}

func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
