// Package config loads ecohabits settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/constants"
)

type Config struct {
	// DBConnection is a SQLite path or a PostgreSQL connection string.
	DBConnection string        `env:"ECOHABITS_DB_CONNECTION"`
	Token        string        `env:"ECOHABITS_TOKEN"`
	JWTSecret    string        `env:"ECOHABITS_JWT_SECRET"`
	JWTIssuer    string        `env:"ECOHABITS_JWT_ISSUER" envDefault:"ecohabits"`
	TokenTTL     time.Duration `env:"ECOHABITS_TOKEN_TTL" envDefault:"720h"`
	Debug        bool          `env:"ECOHABITS_DEBUG"`
	ConfigDir    string        `env:"ECOHABITS_CONFIG_DIR" envDefault:"~/.config/ecohabits"`
}

// Load parses the environment and expands ConfigDir.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL < 0 {
		return Config{}, fmt.Errorf("ECOHABITS_TOKEN_TTL must not be negative")
	}

	cfg.ConfigDir, err = ExpandHome(cfg.ConfigDir)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultDBPath is the SQLite database used when nothing else is configured.
func (c Config) DefaultDBPath() string {
	return filepath.Join(c.ConfigDir, constants.DefaultDBFile)
}

// TokenConfig returns the token settings signed with secret.
func (c Config) TokenConfig(secret string) auth.TokenConfig {
	return auth.TokenConfig{
		Secret: []byte(secret),
		Issuer: c.JWTIssuer,
		TTL:    c.TokenTTL,
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
