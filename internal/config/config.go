package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultDisplayChannel is the prediction-output channel used when no
	// channel has been configured at runtime.
	DefaultDisplayChannel int64 = -1002999811353

	defaultPortHosted = 10000
	defaultPortLocal  = 5000
)

// Config holds the environment-variable surface of the bot.
type Config struct {
	APIID            int
	APIHash          string
	BotToken         string
	AdminID          int64
	Port             int
	RenderDeployment bool
	StatChannel      int64
	DisplayChannel   int64
}

// Load reads configuration from a local .env file (if present) and the
// process environment, then validates the required credentials.
func Load() (*Config, error) {
	// A missing .env file is fine; hosted deployments set real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		RenderDeployment: envBool("RENDER_DEPLOYMENT"),
		APIHash:          os.Getenv("API_HASH"),
		BotToken:         os.Getenv("BOT_TOKEN"),
		DisplayChannel:   DefaultDisplayChannel,
	}

	var err error
	if cfg.APIID, err = envInt("API_ID", 0); err != nil {
		return nil, err
	}
	if cfg.AdminID, err = envInt64("ADMIN_ID", 0); err != nil {
		return nil, err
	}
	if cfg.StatChannel, err = envInt64("STAT_CHANNEL", 0); err != nil {
		return nil, err
	}
	if v := os.Getenv("DISPLAY_CHANNEL"); v != "" {
		if cfg.DisplayChannel, err = envInt64("DISPLAY_CHANNEL", 0); err != nil {
			return nil, err
		}
	}

	defaultPort := defaultPortLocal
	if cfg.RenderDeployment {
		defaultPort = defaultPortHosted
	}
	port64, err := envInt64("PORT", int64(defaultPort))
	if err != nil {
		return nil, err
	}
	cfg.Port = int(port64)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIID == 0 {
		return fmt.Errorf("API_ID manquant ou invalide")
	}
	if c.APIHash == "" {
		return fmt.Errorf("API_HASH manquant")
	}
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN manquant")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT invalide: %d", c.Port)
	}
	return nil
}

// HasAdmin reports whether an admin user is configured. Without one, admin
// gating is disabled (development mode).
func (c *Config) HasAdmin() bool {
	return c.AdminID != 0
}

func envInt(key string, def int) (int, error) {
	v, err := envInt64(key, int64(def))
	return int(v), err
}

func envInt64(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s invalide: %q", key, raw)
	}
	return n, nil
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
