package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/archive"
	"github.com/alfredjeanlab/eventlog/internal/identity"
	"github.com/alfredjeanlab/eventlog/internal/observability"
	"github.com/alfredjeanlab/eventlog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the HTTP and gRPC servers",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg, logger := a.cfg, a.logger

		shutdownTracing, err := observability.Setup(ctx, "eventlog", cfg.OTelEndpoint)
		if err != nil {
			logger.Error("tracing disabled", "err", err)
		} else if cfg.OTelEndpoint != "" {
			logger.Info("tracing enabled", "endpoint", cfg.OTelEndpoint)
		}

		if cfg.NATSURL != "" {
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			logger.Info("events disabled (EVENTLOG_NATS_URL not set)")
		}

		var verifier *identity.Verifier
		if cfg.AuthSecret != "" {
			verifier = identity.NewVerifier(cfg.AuthSecret)
		} else {
			logger.Warn("authentication disabled (EVENTLOG_AUTH_SECRET not set)")
		}

		srv := server.New(a.recorder, a.store, verifier, logger)
		grpcServer, healthServer := server.NewGRPCServer(verifier)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		healthCtx, stopHealth := context.WithCancel(ctx)
		defer stopHealth()
		go server.WatchHealth(healthCtx, healthServer, a.store, 15*time.Second, logger)

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		var scheduler *archive.Scheduler
		if cfg.ArchiveInterval > 0 {
			dests, err := archiveDestinations(ctx, cfg, logger)
			if err != nil {
				logger.Error("failed to configure archive destinations", "err", err)
			}
			if len(dests) > 0 {
				scheduler = archive.NewScheduler(a.recorder, dests, cfg.ArchiveInterval, logger)
				scheduler.Start()
				logger.Info("archive scheduler started", "interval", cfg.ArchiveInterval)
			}
		}

		logger.Info("eventlog server started",
			"env", cfg.Env,
			"types", a.registry.Len(),
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("archive scheduler stopped")
		}

		stopHealth()
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown error", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
