// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, sourced from the environment.
type Config struct {
	DiscordToken      string `env:"DISCORD_BOT_TOKEN"`
	AllowedGuildID    string `env:"ALLOWED_GUILD_ID"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	CTFTime CTFTime

	// OnsiteRegion must appear in an on-site event's location for it to be scheduled.
	OnsiteRegion string `env:"ONSITE_REGION" envDefault:"India"`

	Log Log
}

type CTFTime struct {
	URL       string        `env:"CTFTIME_API_URL" envDefault:"https://ctftime.org/api/v1/events/"`
	Limit     int           `env:"CTFTIME_LIMIT" envDefault:"20"`
	// Empty means ctftime.DefaultUserAgent.
	UserAgent string        `env:"CTFTIME_USER_AGENT"`
	Timeout   time.Duration `env:"CTFTIME_TIMEOUT" envDefault:"15s"`
}

type Log struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	File      string `env:"LOG_FILE"`
	MaxSizeMB int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	KeepDays  int    `env:"LOG_KEEP_DAYS" envDefault:"14"`
}

// Load reads the given .env files (or ./.env when none are given) if they
// exist and parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	// A missing .env is fine, the system environment is used as-is.
	_ = godotenv.Load(files...)

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.CTFTime.Limit < 1 {
		return nil, fmt.Errorf("CTFTIME_LIMIT must be positive, got %d", cfg.CTFTime.Limit)
	}
	return &cfg, nil
}

// ValidateDiscord reports missing settings needed to run the bot.
func (c *Config) ValidateDiscord() error {
	var errs []error
	if c.DiscordToken == "" {
		errs = append(errs, errors.New("DISCORD_BOT_TOKEN is not set"))
	}
	if c.AllowedGuildID == "" {
		errs = append(errs, errors.New("ALLOWED_GUILD_ID is not set"))
	}
	return errors.Join(errs...)
}
