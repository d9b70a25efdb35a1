package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HealthConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ResolverConfig struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LeechConfig struct {
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	DownloadDir     string        `yaml:"download_dir"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	StaleAfter      time.Duration `yaml:"stale_after"` // janitor threshold for leftover files
}

type VerificationConfig struct {
	Enabled      bool          `yaml:"enabled"`
	ShortlinkURL string        `yaml:"shortlink_url"`
	APIKey       string        `yaml:"api_key"`
	Expire       time.Duration `yaml:"expire"`
	TutorialURL  string        `yaml:"tutorial_url"`
}

type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Log          LogConfig          `yaml:"log"`
	Health       HealthConfig       `yaml:"health"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Resolver     ResolverConfig     `yaml:"resolver"`
	Leech        LeechConfig        `yaml:"leech"`
	Verification VerificationConfig `yaml:"verification"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path and applies defaults, environment
// overrides and minimal validation. Environment variables win over the file
// for secrets so container deployments never need credentials on disk.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required (or BOT_TOKEN)")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required (or DATABASE_URL)")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required (or REDIS_URL)")
	}
	if cfg.Verification.Enabled && cfg.Verification.APIKey == "" {
		return nil, errors.New("verification.api_key is required when verification is enabled")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("SHORTLINK_API"); v != "" {
		cfg.Verification.APIKey = v
	}
	if v := os.Getenv("HEALTH_HOST"); v != "" {
		cfg.Health.Host = v
	}
	if v := os.Getenv("HEALTH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Health.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Health.Host == "" {
		cfg.Health.Host = "0.0.0.0"
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 8080
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Resolver.APIURL == "" {
		cfg.Resolver.APIURL = "https://wdzone-terabox-api.vercel.app/api"
	}
	if cfg.Resolver.Timeout <= 0 {
		cfg.Resolver.Timeout = 30 * time.Second
	}
	if cfg.Leech.MaxUploadBytes <= 0 {
		cfg.Leech.MaxUploadBytes = 2 << 30 // Telegram bot upload ceiling
	}
	if cfg.Leech.DownloadDir == "" {
		cfg.Leech.DownloadDir = os.TempDir()
	}
	if cfg.Leech.DownloadTimeout <= 0 {
		cfg.Leech.DownloadTimeout = 300 * time.Second
	}
	if cfg.Leech.MaxAttempts <= 0 {
		cfg.Leech.MaxAttempts = 5
	}
	if cfg.Leech.StaleAfter <= 0 {
		cfg.Leech.StaleAfter = time.Hour
	}
	if cfg.Verification.ShortlinkURL == "" {
		cfg.Verification.ShortlinkURL = "arolinks.com"
	}
	if cfg.Verification.Expire <= 0 {
		cfg.Verification.Expire = 6 * time.Hour
	}
}
