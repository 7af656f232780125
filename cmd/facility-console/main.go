package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wateralmanak/facility-console/internal/bootstrap"
	httpx "github.com/wateralmanak/facility-console/internal/http"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting facility console",
		"auth_mode", cfg.Auth.Mode,
		"facility_api", cfg.Facility.APIURL,
		"addr", cfg.HTTP.Addr)

	redisClient, err := bootstrap.ConnectRedis(bootstrap.RedisClientConfig{
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	sessionSvc := bootstrap.BuildSessionService(bootstrap.AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: redisClient,
		Logger:      logger,
	})
	var sessions httpx.SessionServiceInterface = httpx.DisabledSessions{}
	if sessionSvc != nil {
		sessions = sessionSvc
	}

	facilityClient, err := bootstrap.BuildFacilityClient(bootstrap.FacilityClientConfig{
		Facility: cfg.Facility,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config: &cfg,
		Services: httpx.RouterServices{
			Sessions:     sessions,
			Facilities:   facilityClient,
			CookieDomain: cfg.HTTP.CookieDomain,
			Logger:       logger,
		},
		Logger: logger,
	})

	return waitForShutdown(ctx, waitConfig{
		Server:  server,
		Timeout: cfg.HTTP.ShutdownTimeout,
		Logger:  logger,
	})
}

type waitConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// waitForShutdown blocks until a termination signal arrives, then drains the
// HTTP server.
func waitForShutdown(ctx context.Context, cfg waitConfig) error {
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		<-gctx.Done()
		return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  cfg.Server,
			Timeout: cfg.Timeout,
			Logger:  cfg.Logger,
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
