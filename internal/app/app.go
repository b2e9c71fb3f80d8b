package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"sacred-steps/server"
	servernet "sacred-steps/server/internal/net"
	"sacred-steps/server/internal/telemetry"
	"sacred-steps/server/logging"
	loggingSinks "sacred-steps/server/logging/sinks"
)

const shutdownGrace = 10 * time.Second

// Run boots the full server and blocks until the context is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	logConfig := logging.DefaultConfig()
	sinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}

	router, err := logging.NewRouter(nil, logConfig, sinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	registry := server.NewRegistry(server.RegistryConfig{
		EventRetention: cfg.EventRetention,
		Logger:         telemetryLogger,
		Publisher:      router,
	})

	handler := servernet.NewHTTPHandler(registry, servernet.HTTPHandlerConfig{
		ClientDir:      cfg.ClientDir,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         telemetryLogger,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		telemetryLogger.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}
