// Command gridmap-server runs the GridMap key-value server.
//
// It hosts a fixed-capacity concurrent table behind a RESP endpoint and
// an admin HTTP endpoint. Configuration comes from a YAML file and
// GRIDMAP_-prefixed environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/infra/buildinfo"
	"github.com/yndnr/gridmap-go/internal/infra/confloader"
	"github.com/yndnr/gridmap-go/internal/infra/shutdown"
	"github.com/yndnr/gridmap-go/internal/server/config"
	"github.com/yndnr/gridmap-go/internal/server/httpserver"
	"github.com/yndnr/gridmap-go/internal/server/respserver"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridmap-server:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to YAML configuration file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("gridmap-server", buildinfo.String())
		return nil
	}

	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(*configPath))
	if err := loader.Load(cfg); err != nil {
		return err
	}
	if err := cfg.Verify(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	var opts []chainmap.Option
	if cfg.Map.ScatterHash {
		opts = append(opts, chainmap.WithScatterHash())
	}
	table, err := chainmap.New(cfg.Map.Capacity, opts...)
	if err != nil {
		return err
	}

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewTableCollector(table))
	svc := service.NewKVService(table, log, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sd := shutdown.NewHandler(shutdownTimeout)

	// Registered first so it runs last: servers drain before teardown.
	sd.OnShutdown(func(context.Context) error {
		svc.Close()
		return nil
	})

	if cfg.Server.Resp.Enabled {
		resp := respserver.New(cfg.Server.Resp, svc, log, metrics)
		if err := resp.Start(ctx); err != nil {
			return fmt.Errorf("resp server: %w", err)
		}
		sd.OnShutdown(resp.Shutdown)
	}

	if cfg.Server.HTTP.Enabled {
		admin := httpserver.New(cfg.Server.HTTP, svc, log, metrics)
		if err := admin.Start(ctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		sd.OnShutdown(admin.Shutdown)
	}

	if *configPath != "" {
		if err := watchConfig(*configPath, log, sd); err != nil {
			// A broken watcher is not fatal; reloads are best-effort.
			log.Warn("config watcher unavailable", "error", err)
		}
	}

	log.Info("gridmap-server started",
		"version", buildinfo.Version,
		"capacity", cfg.Map.Capacity,
		"scatter_hash", cfg.Map.ScatterHash,
	)

	return sd.Wait()
}

// watchConfig reloads the log level when the config file changes. Other
// settings (capacity, addresses) require a restart.
func watchConfig(path string, log logger.Logger, sd *shutdown.Handler) error {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return err
	}

	watcher.OnChange(func(string) {
		cfg := config.Default()
		loader := confloader.NewLoader(confloader.WithConfigFile(path))
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if err := cfg.Verify(); err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})

	go watcher.Start()
	sd.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})
	return nil
}
