package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// FileName is the configuration file searched for by LoadConfig.
const FileName = "swagger2graphql.yaml"

var validate = validator.New()

// Config represents the swagger2graphql.yaml configuration file
type Config struct {
	// Description is a path or http(s) URL. Relative paths are resolved
	// against the directory holding the config file.
	Description    string            `yaml:"description" validate:"required"`
	ProxyURL       string            `yaml:"proxyUrl" validate:"omitempty,url"`
	Headers        map[string]string `yaml:"headers"`
	ForwardHeaders []string          `yaml:"forwardHeaders"`
	Serve          ServeConfig       `yaml:"serve"`
	Watch          bool              `yaml:"watch"`
}

// ServeConfig contains GraphQL server configuration
type ServeConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path" validate:"omitempty,startswith=/"`
}

// Defaults
const (
	DefaultAddr = ":8080"
	DefaultPath = "/graphql"
)

// LoadConfig loads swagger2graphql.yaml from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path. Environment
// variables in the file are expanded before decoding.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	config.resolveDescription(filepath.Dir(path))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills unset serve settings.
func (c *Config) ApplyDefaults() {
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.Path == "" {
		c.Serve.Path = DefaultPath
	}
}

// Validate checks the configuration after flags and defaults are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) resolveDescription(dir string) {
	if c.Description == "" || filepath.IsAbs(c.Description) || isURL(c.Description) {
		return
	}
	c.Description = filepath.Join(dir, c.Description)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file://")
}

// loadConfigFromDir searches for swagger2graphql.yaml in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, startDir)
}
