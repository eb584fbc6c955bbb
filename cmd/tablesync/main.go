/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command tablesync applies the entity2ddl mode to the configured tables: it runs the
// start policy, waits for SIGINT or SIGTERM and runs the stop policy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suparena/dynarepo"
	"github.com/suparena/dynarepo/config"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/datastore/ddb"
	"github.com/suparena/dynarepo/lifecycle"
	"github.com/suparena/dynarepo/observability"
	"go.uber.org/zap"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to the YAML configuration")
	modeFlag    = flag.String("mode", "", "Override the entity2ddl mode (none, create, create-only, drop, create-drop)")
)

const stopTimeout = 2 * time.Minute

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := dynarepo.GetVersionInfo()
		fmt.Printf("dynarepo tablesync version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tablesync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *modeFlag != "" {
		cfg.Entity2DDL = *modeFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Collector
	if cfg.Metrics.Enabled {
		metrics = observability.NewCollector(cfg.Metrics.Namespace)
	}

	client, err := ddb.NewDynamoDBClient(ctx, cfg.ClientOptions())
	if err != nil {
		return err
	}
	instrumentOpts := []ddb.InstrumentOption{ddb.WithClientMetrics(metrics)}
	if cfg.Breaker.Enabled {
		instrumentOpts = append(instrumentOpts, ddb.WithBreaker(ddb.NewCircuitBreaker(cfg.BreakerConfig("dynamodb"), logger)))
	}
	admin := ddb.NewTableAdmin(ddb.NewInstrumentedClient(client, instrumentOpts...), logger)

	tables, err := buildLifecycle(cfg, admin, logger, metrics)
	if err != nil {
		return err
	}

	status := newStatus()
	if cfg.Metrics.Address != "" {
		srv := newServer(cfg.Metrics.Address, metrics, status)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("Starting tables", zap.Strings("tables", tables.Tables()), zap.String("mode", cfg.Mode().String()))
	if err := tables.Start(ctx); err != nil {
		return err
	}
	status.markReady()

	<-ctx.Done()
	logger.Info("Shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return tables.Stop(stopCtx)
}

// buildLifecycle binds one synchronizer to each configured table.
func buildLifecycle(cfg *config.Config, admin datastore.TableAdmin, logger *zap.Logger, metrics *observability.Collector) (*dynarepo.Lifecycle, error) {
	tables := dynarepo.NewLifecycle(logger)
	for _, schema := range cfg.TableSchemas() {
		opts := []lifecycle.Option{
			lifecycle.WithActiveTimeout(cfg.TableActiveTimeout),
			lifecycle.WithPollInterval(cfg.TablePollInterval),
			lifecycle.WithLogger(logger),
		}
		if metrics != nil {
			opts = append(opts, lifecycle.WithMetrics(metrics))
		}
		s, err := lifecycle.NewSynchronizer(admin, schema, cfg.Mode(), opts...)
		if err != nil {
			return nil, err
		}
		if err := tables.Register(s); err != nil {
			return nil, err
		}
	}
	return tables, nil
}
