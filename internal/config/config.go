package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all client configuration.
type Config struct {
	Shop    ShopConfig
	HTTP    HTTPConfig
	Logging LogConfig
}

// ShopConfig identifies the shop and its web service credentials.
type ShopConfig struct {
	URL    string `envconfig:"PRESTASHOP_SHOP_URL"`
	Path   string `envconfig:"PRESTASHOP_ENDPOINT" default:"/api"`
	Token  string `envconfig:"PRESTASHOP_TOKEN"`
	ShopID int    `envconfig:"PRESTASHOP_SHOP_ID" default:"0"`
}

// ShopURL returns the shop's base URL.
func (s ShopConfig) ShopURL() string { return s.URL }

// EndpointPath returns the web service path below the base URL.
func (s ShopConfig) EndpointPath() string { return s.Path }

// AuthToken returns the web service key.
func (s ShopConfig) AuthToken() string { return s.Token }

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout            time.Duration `envconfig:"PRESTASHOP_TIMEOUT" default:"30s"`
	RetryMax           int           `envconfig:"PRESTASHOP_RETRY_MAX" default:"0"`
	RateLimit          float64       `envconfig:"PRESTASHOP_RATE_LIMIT" default:"0"`
	InsecureSkipVerify bool          `envconfig:"PRESTASHOP_INSECURE" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"PRESTASHOP_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"PRESTASHOP_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shop: ShopConfig{
			Path: "/api",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// fileConfig is the on-disk schema. Pointers tell set keys from missing ones.
type fileConfig struct {
	Shop struct {
		URL    *string `yaml:"url" toml:"url"`
		Path   *string `yaml:"endpoint" toml:"endpoint"`
		Token  *string `yaml:"token" toml:"token"`
		ShopID *int    `yaml:"shop_id" toml:"shop_id"`
	} `yaml:"shop" toml:"shop"`
	HTTP struct {
		Timeout            *string  `yaml:"timeout" toml:"timeout"`
		RetryMax           *int     `yaml:"retry_max" toml:"retry_max"`
		RateLimit          *float64 `yaml:"rate_limit" toml:"rate_limit"`
		InsecureSkipVerify *bool    `yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
	} `yaml:"http" toml:"http"`
	Logging struct {
		Level       *string `yaml:"level" toml:"level"`
		Development *bool   `yaml:"development" toml:"development"`
	} `yaml:"logging" toml:"logging"`
}

// LoadFile loads the environment and overlays the keys set in a YAML or TOML
// file. Keys present in the file win over the environment.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := fc.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	setString(&cfg.Shop.URL, fc.Shop.URL)
	setString(&cfg.Shop.Path, fc.Shop.Path)
	setString(&cfg.Shop.Token, fc.Shop.Token)
	if fc.Shop.ShopID != nil {
		cfg.Shop.ShopID = *fc.Shop.ShopID
	}

	if fc.HTTP.Timeout != nil {
		d, err := time.ParseDuration(*fc.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("invalid http.timeout: %w", err)
		}
		cfg.HTTP.Timeout = d
	}
	if fc.HTTP.RetryMax != nil {
		cfg.HTTP.RetryMax = *fc.HTTP.RetryMax
	}
	if fc.HTTP.RateLimit != nil {
		cfg.HTTP.RateLimit = *fc.HTTP.RateLimit
	}
	if fc.HTTP.InsecureSkipVerify != nil {
		cfg.HTTP.InsecureSkipVerify = *fc.HTTP.InsecureSkipVerify
	}

	setString(&cfg.Logging.Level, fc.Logging.Level)
	if fc.Logging.Development != nil {
		cfg.Logging.Development = *fc.Logging.Development
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Env resolves shop defaults from the environment each time it is asked, so
// changes made after the client was built are picked up.
type Env struct{}

func (Env) shop() ShopConfig {
	var s ShopConfig
	if err := envconfig.Process("", &s); err != nil {
		return ShopConfig{}
	}
	return s
}

// ShopURL returns PRESTASHOP_SHOP_URL.
func (e Env) ShopURL() string { return e.shop().URL }

// EndpointPath returns PRESTASHOP_ENDPOINT, "/api" when unset.
func (e Env) EndpointPath() string { return e.shop().Path }

// AuthToken returns PRESTASHOP_TOKEN.
func (e Env) AuthToken() string { return e.shop().Token }
