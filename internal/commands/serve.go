package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okra-platform/swagger2graphql/internal/config"
	"github.com/okra-platform/swagger2graphql/internal/gateway"
	"github.com/okra-platform/swagger2graphql/internal/gqlschema"
	"github.com/okra-platform/swagger2graphql/internal/watch"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions contains options for the serve command
type ServeOptions struct {
	// Addr overrides the configured listen address.
	Addr string
	// Watch rebuilds the schema when the description file changes.
	Watch bool
}

func (c *Controller) Serve(ctx context.Context, opts ...ServeOptions) error {
	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		if opts[0].Addr != "" {
			cfg.Serve.Addr = opts[0].Addr
		}
		if opts[0].Watch {
			cfg.Watch = true
		}
	}

	listener, err := net.Listen("tcp", cfg.Serve.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Serve.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger := c.logger()
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return c.serve(ctx, cfg, listener)
}

// serve runs the gateway on listener until ctx is done.
func (c *Controller) serve(ctx context.Context, cfg *config.Config, listener net.Listener) error {
	logger := c.logger()

	gw := gateway.NewGateway(
		gateway.WithPath(cfg.Serve.Path),
		gateway.WithForwardHeaders(cfg.ForwardHeaders...),
		gateway.WithLogger(logger),
	)
	if err := c.reload(ctx, cfg, gw); err != nil {
		listener.Close()
		return err
	}

	if cfg.Watch {
		watcher, err := c.watchDescription(ctx, cfg, gw)
		if err != nil {
			listener.Close()
			return err
		}
		if watcher != nil {
			defer watcher.Close()
		}
	}

	server := &http.Server{
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", listener.Addr().String()).
			Str("path", cfg.Serve.Path).
			Msg("serving GraphQL")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("gateway error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	logger.Info().Msg("serve shutdown complete")
	return nil
}

// reload builds the schema from the description and swaps it into gw. The
// previous schema stays in place when the build fails.
func (c *Controller) reload(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
	root, err := gqlschema.Build(ctx, cfg.Description, c.schemaOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}
	gw.UpdateSchema(root.Schema)
	return nil
}

// watchDescription rebuilds the schema whenever a local description changes.
// Remote descriptions cannot be watched and yield a nil watcher.
func (c *Controller) watchDescription(ctx context.Context, cfg *config.Config, gw gateway.Gateway) (*watch.FileWatcher, error) {
	logger := c.logger()
	if strings.HasPrefix(cfg.Description, "http://") || strings.HasPrefix(cfg.Description, "https://") {
		logger.Warn().Str("description", cfg.Description).Msg("remote description, watch disabled")
		return nil, nil
	}

	watcher, err := watch.NewFileWatcher(
		strings.TrimPrefix(cfg.Description, "file://"),
		func(path string, op fsnotify.Op) {
			logger.Info().Str("path", path).Str("op", op.String()).Msg("description changed, rebuilding")
			if err := c.reload(ctx, cfg, gw); err != nil {
				logger.Error().Err(err).Msg("rebuild failed, keeping previous schema")
			}
		},
		watch.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to watch description: %w", err)
	}

	go func() {
		if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("watcher stopped")
		}
	}()

	return watcher, nil
}
