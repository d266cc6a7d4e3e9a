package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	minSecretKeyLength = 32

	SessionStoreSQL   = "sqlite"
	SessionStoreRedis = "redis"
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":               {},
	"replace_with_at_least_32_random_chars": {},
}

type Config struct {
	SecretKey       string `yaml:"secret_key"`
	Port            string `yaml:"port"`
	Timezone        string `yaml:"timezone"`
	DefaultLanguage string `yaml:"default_language"`
	CookieSecure    bool   `yaml:"cookie_secure"`
	RequestTimeout  string `yaml:"request_timeout"`

	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	Store    string `yaml:"store"` // sqlite or redis
	RedisURL string `yaml:"redis_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

func Default() Config {
	return Config{
		Port:            "8080",
		Timezone:        "UTC",
		DefaultLanguage: "en",
		RequestTimeout:  "10s",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join("data", "artemis.db"),
		},
		Session: SessionConfig{Store: SessionStoreSQL},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load layers defaults, the YAML file named by CONFIG_FILE, then environment
// variables, and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) applyEnv(getenv func(string) string) {
	set := func(target *string, key string) {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			*target = value
		}
	}

	set(&cfg.SecretKey, "SECRET_KEY")
	set(&cfg.Port, "PORT")
	set(&cfg.Timezone, "TZ")
	set(&cfg.DefaultLanguage, "DEFAULT_LANGUAGE")
	set(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	set(&cfg.Database.Driver, "DB_DRIVER")
	set(&cfg.Database.Path, "DB_PATH")
	set(&cfg.Database.DSN, "DB_DSN")
	set(&cfg.Session.Store, "SESSION_STORE")
	set(&cfg.Session.RedisURL, "REDIS_URL")
	set(&cfg.Logging.Level, "LOG_LEVEL")
	set(&cfg.Logging.Format, "LOG_FORMAT")

	if raw := strings.TrimSpace(getenv("COOKIE_SECURE")); raw != "" {
		if secure, err := strconv.ParseBool(raw); err == nil {
			cfg.CookieSecure = secure
		}
	}
}

func (cfg Config) Validate() error {
	if _, err := ResolveSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if _, err := ResolvePort(cfg.Port); err != nil {
		return err
	}
	if _, err := cfg.Timeout(); err != nil {
		return err
	}

	switch strings.ToLower(cfg.Database.Driver) {
	case "sqlite":
	case "mysql":
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return errors.New("DB_DSN is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	switch strings.ToLower(cfg.Session.Store) {
	case SessionStoreSQL:
	case SessionStoreRedis:
		if strings.TrimSpace(cfg.Session.RedisURL) == "" {
			return errors.New("REDIS_URL is required for the redis session store")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", cfg.Session.Store)
	}
	return nil
}

func (cfg Config) Timeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(cfg.RequestTimeout))
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q", cfg.RequestTimeout)
	}
	return timeout, nil
}

// Location falls back to UTC for unknown zone names.
func (cfg Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid TZ %q: %w", cfg.Timezone, err)
	}
	return location, nil
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(value), nil
}
