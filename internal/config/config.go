// Package config loads and validates the application configuration.
//
// Configuration comes from an optional YAML file plus environment
// variables, with env taking precedence — OMDB_API_KEY etc. work without
// any file present, which is how deployments usually run.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int    `mapstructure:"port"`
	DBPath      string `mapstructure:"db_path"`
	TemplateDir string `mapstructure:"template_dir"`
	StaticDir   string `mapstructure:"static_dir"`
	LogLevel    string `mapstructure:"log_level"`
	OMDB        OMDB   `mapstructure:"omdb"`
}

// OMDB configures the metadata provider client.
type OMDB struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the given file (optional — pass "" to use
// env vars and defaults only) and validates it.
//
// The OMDb API key has no default and no fallback: a missing key is a
// startup error, so a misconfigured deployment fails fast instead of
// failing on the first movie lookup.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Environment variables override file values.
	// OMDB_API_KEY → omdb.api_key, PORT → port, DB_PATH → db_path, ...
	v.BindEnv("port", "PORT")
	v.BindEnv("db_path", "DB_PATH")
	v.BindEnv("template_dir", "TEMPLATE_DIR")
	v.BindEnv("static_dir", "STATIC_DIR")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("omdb.api_key", "OMDB_API_KEY")
	v.BindEnv("omdb.base_url", "OMDB_BASE_URL")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/cinephile.db")
	v.SetDefault("template_dir", "web/templates")
	v.SetDefault("static_dir", "web/static")
	v.SetDefault("log_level", "info")
	v.SetDefault("omdb.base_url", "https://www.omdbapi.com")
	v.SetDefault("omdb.timeout", 10*time.Second)
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if cfg.OMDB.APIKey == "" {
		return fmt.Errorf("omdb.api_key is required (set OMDB_API_KEY)")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	return nil
}
