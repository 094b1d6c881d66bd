package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"json"`
	DataDir        string `env:"DATA_DIR" envDefault:"./data"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"./data/bot.db"`

	// Used when a guild has not picked a welcome channel with /config.
	WelcomeChannelID string `env:"WELCOME_CHANNEL_ID"`

	// Empty registers global commands.
	GuildID                    string `env:"GUILD_ID"`
	RegisterCommands           bool   `env:"REGISTER_COMMANDS" envDefault:"true"`
	CleanCommandsAfterShutdown bool   `env:"CLEAN_COMMANDS_AFTER_SHUTDOWN"`

	HealthAddr string `env:"HEALTH_ADDR" envDefault:":8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	FontPaths        []string      `env:"FONT_PATHS" envSeparator:":"`
	PresenceInterval time.Duration `env:"PRESENCE_INTERVAL" envDefault:"30m"`
}

// Load reads the configuration from the environment. With envFile set the
// file is loaded first; variables already present in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendJSON:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the %s backend", BackendJSON)
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s backend", BackendPostgres)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.PresenceInterval <= 0 {
		return fmt.Errorf("PRESENCE_INTERVAL must be positive")
	}
	return nil
}
