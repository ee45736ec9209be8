package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the portal. Values come from the
// optional YAML file first, then environment variables override them.
type Config struct {
	Port    string      `yaml:"port"`
	AppEnv  string      `yaml:"app_env"`
	Log     LogConfig   `yaml:"log"`
	Data    DataConfig  `yaml:"data"`
	Session SessionConf `yaml:"session"`
	CORS    CORSConfig  `yaml:"cors"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// DataConfig points at the CSV snapshots backing the read model.
type DataConfig struct {
	Dir               string `yaml:"dir"`
	AllowedPhonesFile string `yaml:"allowed_phones_file"`
	TransactionsFile  string `yaml:"transactions_file"`
}

type SessionConf struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"` // 0 disables the background sweep
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a Config with the values used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:   "8080",
		AppEnv: "development",
		Log: LogConfig{
			Level: "info",
			Dir:   "./logging/logs",
		},
		Data: DataConfig{
			Dir:               "./data",
			AllowedPhonesFile: "allowed-phones.csv",
			TransactionsFile:  "transactions.csv",
		},
		Session: SessionConf{
			TTL: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults, .env and the process environment are used.
func Load(path string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "APP_PORT")
	setString(&c.AppEnv, "APP_ENV")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Dir, "LOG_DIR")
	setString(&c.Data.Dir, "DATA_DIR")
	setString(&c.Data.AllowedPhonesFile, "ALLOWED_PHONES_FILE")
	setString(&c.Data.TransactionsFile, "TRANSACTIONS_FILE")

	if err := setDuration(&c.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.Session.SweepInterval, "SESSION_SWEEP_INTERVAL"); err != nil {
		return err
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("port is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.SweepInterval < 0 {
		return fmt.Errorf("session sweep interval must not be negative, got %s", c.Session.SweepInterval)
	}
	if c.Data.AllowedPhonesFile == "" || c.Data.TransactionsFile == "" {
		return fmt.Errorf("data file names are required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
