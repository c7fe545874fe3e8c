// Package config loads the extractor settings from an optional YAML file,
// an optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given explicitly.
const DefaultFile = "feishu-extractor.yaml"

// Environment variables overriding file values.
const (
	EnvAppID     = "FEISHU_APP_ID"
	EnvAppSecret = "FEISHU_APP_SECRET"
	EnvBaseURL   = "FEISHU_BASE_URL"
	EnvPageSize  = "FEISHU_PAGE_SIZE"
)

// Config holds every setting of an extraction run.
type Config struct {
	AppID        string `yaml:"app_id"`
	AppSecret    string `yaml:"app_secret"`
	BaseURL      string `yaml:"base_url"`
	OutputDir    string `yaml:"output_dir"`
	ImageDir     string `yaml:"image_dir"`
	PageSize     int    `yaml:"page_size"`  // folder listing page size
	PageCount    int    `yaml:"page_count"` // max folder listing pages
	HTML         bool   `yaml:"html"`
	FrontMatter  bool   `yaml:"front_matter"`
	SkipExisting bool   `yaml:"skip_existing"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		OutputDir: ".",
		ImageDir:  ".",
		PageSize:  200,
		PageCount: 3,
	}
}

// Load builds the configuration. A missing file is not an error when path
// is DefaultFile or empty; an explicit path must exist.
func Load(path string) (*Config, error) {
	// Optional, values already in the environment win.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != "" && path != DefaultFile
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if v := os.Getenv(EnvAppID); v != "" {
		cfg.AppID = v
	}
	if v := os.Getenv(EnvAppSecret); v != "" {
		cfg.AppSecret = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvPageSize, err)
		}
		cfg.PageSize = n
	}

	return &cfg, nil
}

// Validate reports missing credentials.
func (c *Config) Validate() error {
	if c.AppID == "" || c.AppSecret == "" {
		return fmt.Errorf("config: app id and app secret are required (set %s and %s)", EnvAppID, EnvAppSecret)
	}
	return nil
}
