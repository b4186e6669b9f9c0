package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultTimezone        = "America/Sao_Paulo"
	defaultReminderTimeout = 2 * time.Minute
)

type Config struct {
	DBDSN            string        `mapstructure:"DB_DSN"`
	Environment      string        `mapstructure:"ENV"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	JWTSecret        string        `mapstructure:"JWT_HMAC_SECRET"`
	ReminderSecret   string        `mapstructure:"REMINDER_SECRET"`
	ReminderInterval time.Duration `mapstructure:"REMINDER_INTERVAL"`
	ReminderTimeout  time.Duration `mapstructure:"REMINDER_TIMEOUT"`
	Timezone         string        `mapstructure:"TIMEZONE"`
	TelegramToken    string        `mapstructure:"TELEGRAM_TOKEN"`
	AutoMigrate      bool          `mapstructure:"AUTO_MIGRATE"`

	// Location is Timezone resolved by Load
	Location *time.Location `mapstructure:"-"`
}

// Options tune what Load insists on
type Options struct {
	// EnvFile is loaded first when present. Empty means ".env".
	EnvFile string
	// RequireDB fails Load when DB_DSN is unset.
	RequireDB bool
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing file is fine, variables may come from the environment
	_ = godotenv.Load(envFile)

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		JWTSecret:      os.Getenv("JWT_HMAC_SECRET"),
		ReminderSecret: os.Getenv("REMINDER_SECRET"),
		Timezone:       os.Getenv("TIMEZONE"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}

	var err error
	if cfg.ReminderInterval, err = durationEnv("REMINDER_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.ReminderTimeout, err = durationEnv("REMINDER_TIMEOUT", defaultReminderTimeout); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = boolEnv("AUTO_MIGRATE", false); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	if opts.RequireDB && cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
