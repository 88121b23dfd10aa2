package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultBaseURL = "http://localhost:3000"

// Config holds the application configuration loaded from flags, environment variables and .env files.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	Env                   string        `mapstructure:"app_env"`
	LogLevel              string        `mapstructure:"log_level"`
	BaseURL               string        `mapstructure:"contacts_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	ReadPage       int    `mapstructure:"read_page"`
	ReadLimit      int    `mapstructure:"read_limit"`
	CleanupCreated bool   `mapstructure:"cleanup_created"`
	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from command-line args, environment variables and configs/.env.
// Flags win over environment, environment wins over defaults.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "contacts-prober")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("contacts_base_url", DefaultBaseURL)
	v.SetDefault("request_timeout_seconds", 0) // transport default
	v.SetDefault("read_page", 0)
	v.SetDefault("read_limit", 0)
	v.SetDefault("cleanup_created", false)
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	fs := pflag.NewFlagSet("prober", pflag.ContinueOnError)
	fs.String("base-url", "", "base URL of the contacts service (env CONTACTS_BASE_URL)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if f := fs.Lookup("base-url"); f != nil && f.Changed {
		if err := v.BindPFlag("contacts_base_url", f); err != nil {
			return nil, fmt.Errorf("bind base-url flag: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return fmt.Errorf("invalid contacts_base_url (must not be empty)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid contacts_base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid contacts_base_url %q (expected http(s)://host[:port])", c.BaseURL)
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	if c.ReadPage < 0 {
		return fmt.Errorf("invalid read_page (must be zero or positive)")
	}
	if c.ReadLimit < 0 {
		return fmt.Errorf("invalid read_limit (must be zero or positive)")
	}

	c.PublishersFile = strings.TrimSpace(c.PublishersFile)
	return nil
}
