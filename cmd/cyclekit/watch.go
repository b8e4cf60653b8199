package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/cyclekit/config"
	"github.com/c360studio/cyclekit/metrics"
)

// rerunDebounce coalesces the bursts of filesystem events editors produce
// into one re-run.
const rerunDebounce = 500 * time.Millisecond

func watchCommand(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run harmonization whenever rule files or extracts change",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(*logLevel)
			cfg, err := config.LoadFromFile(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			collect := metrics.New(reg)
			if cfg.Watch.Addr != "" {
				go serveMetrics(ctx, cfg.Watch.Addr, reg, logger)
			}

			return watch(ctx, cfg, logger, collect)
		},
	}
}

func watch(ctx context.Context, cfg *config.Config, logger *slog.Logger, collect *metrics.Collector) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent directories; files are often replaced by rename,
	// which drops a per-file watch.
	dirs := make(map[string]bool)
	for _, pattern := range cfg.Rules {
		dirs[filepath.Dir(pattern)] = true
	}
	for _, cy := range cfg.Cycles {
		dirs[filepath.Dir(cy.Path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch directory", slog.String("dir", dir), slog.String("error", err.Error()))
		}
	}

	runOnce := func() {
		if err := harmonize(cfg, logger, collect); err != nil {
			logger.Error("harmonization failed", slog.String("error", err.Error()))
		}
	}
	runOnce()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			runOnce()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("change detected", slog.String("path", event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rerunDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", slog.String("error", err.Error()))
	}
}
