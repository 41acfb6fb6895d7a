package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/swagger2graphql/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "swagger2graphql",
		Usage:   "Expose a Swagger 2.0 REST API as an executable GraphQL schema",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("SWAGGER2GRAPHQL_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to swagger2graphql.yaml (default: searched from the working directory up)",
				Destination: &ctrl.Flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "path or URL of the Swagger description",
				Destination: &ctrl.Flags.Description,
			},
			&cli.StringFlag{
				Name:        "proxy-url",
				Usage:       "base URL every REST call is sent to instead of the described host",
				Destination: &ctrl.Flags.ProxyURL,
			},
			&cli.StringSliceFlag{
				Name:  "header",
				Usage: "header sent with every REST call, as Name=value (repeatable)",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()
			ctrl.Flags.Headers = c.StringSlice("header")

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "print",
				Usage: "Print the generated schema as SDL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "write the schema to a file instead of stdout",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Print(ctx, commands.PrintOptions{Out: c.String("out")})
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the generated schema over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (default from config, else :8080)",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "rebuild the schema when the description file changes",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Serve(ctx, commands.ServeOptions{
						Addr:  c.String("addr"),
						Watch: c.Bool("watch"),
					})
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run swagger2graphql")
	}
}
