// Package commands contains the CLI commands for the application
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/okra-platform/swagger2graphql/internal/config"
	"github.com/okra-platform/swagger2graphql/internal/gqlschema"
)

// Flags are the global command line flags. Set flags win over the config
// file.
type Flags struct {
	LogLevel    string
	ConfigPath  string
	Description string
	ProxyURL    string
	// Headers are "Name=value" pairs sent with every call.
	Headers []string
}

type Controller struct {
	Flags *Flags
	// Stdout receives printed schemas. Defaults to os.Stdout.
	Stdout io.Writer
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *Controller) logger() zerolog.Logger {
	return log.Logger
}

// resolveConfig loads the config file, if any, and applies flag overrides.
// Without a config file the description must come from the flags.
func (c *Controller) resolveConfig() (*config.Config, error) {
	flags := c.Flags
	if flags == nil {
		flags = &Flags{}
	}

	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.LoadConfigFromPath(flags.ConfigPath)
	} else {
		cfg, _, err = config.LoadConfig()
		if errors.Is(err, config.ErrConfigNotFound) && flags.Description != "" {
			cfg, err = &config.Config{}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.Description != "" {
		cfg.Description = flags.Description
	}
	if flags.ProxyURL != "" {
		cfg.ProxyURL = flags.ProxyURL
	}
	if len(flags.Headers) > 0 {
		headers, err := parseHeaders(flags.Headers)
		if err != nil {
			return nil, err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseHeaders turns "Name=value" pairs into a header map.
func parseHeaders(pairs []string) (map[string]string, error) {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, pair)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func (c *Controller) schemaOptions(cfg *config.Config) []gqlschema.Option {
	options := []gqlschema.Option{
		gqlschema.WithHeaders(cfg.Headers),
		gqlschema.WithLogger(c.logger()),
	}
	if cfg.ProxyURL != "" {
		options = append(options, gqlschema.WithProxyURL(cfg.ProxyURL))
	}
	return options
}
