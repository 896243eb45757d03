package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weidex/config"
	"weidex/observability/logging"
	"weidex/observability/telemetry"
)

const (
	serviceName     = "weidexd"
	shutdownTimeout = 10 * time.Second
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "weidexd: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(serviceName, cfg.Environment, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Settings{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(cfg.Telemetry.Headers),
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	n, err := newNode(cfg, logger)
	if err != nil {
		return err
	}
	defer n.Close()

	srv := &http.Server{
		Addr:              cfg.RPCAddress,
		Handler:           n.server,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("rpc listening", slog.String("address", cfg.RPCAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("rpc server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("rpc shutdown: %w", err)
	}
	return nil
}
