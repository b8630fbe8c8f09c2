package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration. It is loaded once at startup and
// passed by value afterwards.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the inbound HTTP listener.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"`
}

// UpstreamConfig describes the SERP provider.
type UpstreamConfig struct {
	BaseURL         string        `yaml:"base_url"`
	AutocompleteURL string        `yaml:"autocomplete_url"`
	HotelsURL       string        `yaml:"hotels_url"`
	RegionURL       string        `yaml:"region_url"`
	Username        string        `yaml:"username"`
	Secret          string        `yaml:"secret"`
	Timeout         time.Duration `yaml:"timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":3000",
			GinMode: "release",
		},
		Upstream: UpstreamConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from .env, an optional YAML file named by
// SERP_CONFIG_FILE, and the process environment, in that order of precedence
// (environment wins).
func Load() (Config, error) {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := Env("SERP_CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	cfg.Upstream.fillFromBase()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Env returns the trimmed value of key, or fallback when it is unset or blank.
func Env(key, fallback string) string {
	return envOr(os.LookupEnv, key, fallback)
}

func envOr(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERP_ADDR":             &cfg.Server.Addr,
		"GIN_MODE":              &cfg.Server.GinMode,
		"SERP_BASE_URL":         &cfg.Upstream.BaseURL,
		"SERP_AUTOCOMPLETE_URL": &cfg.Upstream.AutocompleteURL,
		"SERP_HOTELS_URL":       &cfg.Upstream.HotelsURL,
		"SERP_REGION_URL":       &cfg.Upstream.RegionURL,
		"SERP_USERNAME":         &cfg.Upstream.Username,
		"SERP_SECRET":           &cfg.Upstream.Secret,
		"LOG_LEVEL":             &cfg.Log.Level,
		"LOG_FORMAT":            &cfg.Log.Format,
		"LOG_FILE":              &cfg.Log.File,
	}
	for key, dst := range strs {
		*dst = envOr(lookup, key, *dst)
	}

	if v, ok := lookup("SERP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SERP_TIMEOUT: %w", err)
		}
		cfg.Upstream.Timeout = d
	}

	return nil
}

// fillFromBase derives unset endpoint URLs from BaseURL.
func (u *UpstreamConfig) fillFromBase() {
	if u.BaseURL == "" {
		return
	}
	base := strings.TrimRight(u.BaseURL, "/")
	if u.AutocompleteURL == "" {
		u.AutocompleteURL = base + "/autocomplete"
	}
	if u.HotelsURL == "" {
		u.HotelsURL = base + "/hotels"
	}
	if u.RegionURL == "" {
		u.RegionURL = base + "/region"
	}
}

// Validate checks that the configuration can serve requests.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server address is required")
	}
	switch c.Server.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.Server.GinMode)
	}

	endpoints := []struct {
		name  string
		value string
	}{
		{"autocomplete url", c.Upstream.AutocompleteURL},
		{"hotels url", c.Upstream.HotelsURL},
		{"region url", c.Upstream.RegionURL},
	}
	for _, ep := range endpoints {
		if ep.value == "" {
			return fmt.Errorf("%s is required", ep.name)
		}
		u, err := url.Parse(ep.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL", ep.name)
		}
	}

	if c.Upstream.Username == "" {
		return errors.New("upstream username is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}

	return nil
}
