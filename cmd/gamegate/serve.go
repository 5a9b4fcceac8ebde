// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dsweb/gamegate/internal/auth"
	authpg "github.com/dsweb/gamegate/internal/auth/postgres"
	authredis "github.com/dsweb/gamegate/internal/auth/redis"
	"github.com/dsweb/gamegate/internal/config"
	"github.com/dsweb/gamegate/internal/gateway"
	"github.com/dsweb/gamegate/internal/logging"
	"github.com/dsweb/gamegate/internal/observability"
	"github.com/dsweb/gamegate/internal/store"
	"github.com/dsweb/gamegate/pkg/errutil"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the API server which accepts POST /api/{operation} requests,
authenticating session-scoped operations against Redis.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServeWithDeps(ctx, cfg, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runServeWithDeps starts the server and blocks until ctx is done or a
// server fails. If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	logger := logging.Setup("gamegate", version, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	logger.InfoContext(ctx, "starting gamegate",
		"addr", cfg.Server.Addr,
		"redis_addr", cfg.Redis.Addr,
		"session_ttl", cfg.Session.TTL,
		"lock_ttl", cfg.Session.LockTTL)

	policy := store.RetryPolicy{
		Attempts: cfg.Startup.Attempts,
		Base:     cfg.Startup.BaseBackoff,
		Cap:      cfg.Startup.MaxBackoff,
	}

	redisClient, err := deps.RedisOpener(ctx, &goredis.Options{
		Addr:        cfg.Redis.Addr,
		Username:    cfg.Redis.Username,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	}, policy)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Debug("error closing redis client", "error", closeErr)
		}
	}()
	logger.InfoContext(ctx, "connected to redis")

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(ctx, deps, cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	db, err := deps.DatabaseOpener(ctx, cfg.Database.URL, policy)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.InfoContext(ctx, "connected to database")

	sessions := authredis.NewSessionStore(redisClient, authredis.WithLockTTL(cfg.Session.LockTTL))
	users := authpg.NewUserGateway(db, logger)
	svc, err := auth.NewServiceWithLogger(sessions, users, logger, auth.WithSessionTTL(cfg.Session.TTL))
	if err != nil {
		return err
	}

	registry := gateway.NewRegistry()
	if err := auth.Register(registry, svc); err != nil {
		return err
	}
	dispatcher, err := gateway.NewDispatcher(registry, sessions,
		gateway.WithLogger(logger),
		gateway.WithHandlerDeadline(cfg.Session.LockTTL))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	probe := newBackendProbe(map[string]pinger{
		observability.BackendRedis:    sessions,
		observability.BackendPostgres: db,
	}, logger)

	var obsServer ObservabilityServer
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, probe.Ready)
		gateway.RegisterMetrics(obsServer.Registerer())
		probe.metrics = obsServer.Metrics()

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}
	probe.check(ctx)
	go probe.run(ctx, probeInterval)

	listener, err := deps.ListenerFactory("tcp", cfg.Server.Addr)
	if err != nil {
		stopObservability(obsServer, logger)
		return oops.Code("LISTEN_FAILED").With("addr", cfg.Server.Addr).Wrap(err)
	}

	apiServer := &http.Server{
		Handler:           gateway.NewHandler(dispatcher, cfg.Server.MaxBodyBytes).Routes(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if serveErr := apiServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	cmd.Println("gamegate started")
	logger.InfoContext(ctx, "api server listening", "addr", listener.Addr().String())

	var serveErr error
	select {
	case err := <-errChan:
		serveErr = oops.Code("API_SERVER_FAILED").Wrap(err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	stopObservability(obsServer, logger)

	logger.Info("shutdown complete")
	return serveErr
}

func autoMigrate(ctx context.Context, deps *ServeDeps, url string, logger *slog.Logger) error {
	migrator, err := deps.MigratorFactory(url)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Debug("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}
	version, _, err := migrator.Version()
	if err != nil {
		return oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	logger.InfoContext(ctx, "database schema up to date", "version", version)
	return nil
}

func stopObservability(obsServer ObservabilityServer, logger *slog.Logger) {
	if obsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obsServer.Stop(ctx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels ctx when a background server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, name string, logger *slog.Logger) {
	select {
	case <-ctx.Done():
	case err, ok := <-errChan:
		if ok && err != nil {
			errutil.LogError(logger, "server failed", err, "server", name)
			cancel()
		}
	}
}
