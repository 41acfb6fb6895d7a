package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okra-platform/swagger2graphql/internal/gqlschema"
	"github.com/okra-platform/swagger2graphql/internal/sdl"
)

// PrintOptions contains options for the print command
type PrintOptions struct {
	// Out is a file path. Empty prints to stdout.
	Out string
}

// Print builds the schema and writes it as SDL.
func (c *Controller) Print(ctx context.Context, opts ...PrintOptions) error {
	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	root, err := gqlschema.Build(ctx, cfg.Description, c.schemaOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	out := sdl.Print(root.Schema)
	if err := sdl.Validate(out); err != nil {
		return fmt.Errorf("generated schema is invalid: %w", err)
	}

	if len(opts) > 0 && opts[0].Out != "" {
		if err := os.WriteFile(opts[0].Out, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		logger := c.logger()
		logger.Info().Str("path", opts[0].Out).Msg("schema written")
		return nil
	}

	_, err = io.WriteString(c.stdout(), out)
	return err
}
