package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bytethoughts/internal/adapters/devto"
	"bytethoughts/internal/adapters/web"
	"bytethoughts/internal/config"
	"bytethoughts/internal/metrics"
	"bytethoughts/internal/usecases"
	"bytethoughts/pkg/log"
	"bytethoughts/pkg/log/transporters"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.2.793 generate -path ../../templates

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bytethoughts: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	defer logger.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Adapters
	opts := devto.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		APIKey:    cfg.Upstream.APIKey,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.Timeout,
		Metrics:   m,
	}
	if b := cfg.Upstream.Breaker; b.Enabled {
		opts.Breaker = &devto.BreakerConfig{
			Name:         "devto",
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
			Interval:     b.Interval,
			OpenTimeout:  b.OpenTimeout,
		}
	}
	client := devto.NewClient(opts)

	estimatedTotal := cfg.Listing.EstimatedTotal
	if cfg.Listing.DiscoverTotal {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		estimatedTotal = client.ApproximateCount(ctx)
		cancel()
		log.GlobalInfo("discovered article count", "estimated_total", estimatedTotal)
	}

	// Use cases
	home := usecases.NewGetHome(client, usecases.HomeCounts{
		Top:      cfg.Home.TopCount,
		Trending: cfg.Home.TrendingCount,
		Latest:   cfg.Home.LatestCount,
	})
	listing := usecases.NewGetListing(client, estimatedTotal, m)
	article := usecases.NewGetArticle(client)

	// Web
	appOpts := web.AppOptions{
		AppName: cfg.Server.AppName,
		Routes: web.RouteOptions{
			StaticDir: cfg.Server.StaticDir,
			Gatherer:  registry,
		},
	}
	if cfg.RateLimit.PerMinute > 0 {
		appOpts.RateLimiter = web.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, m)
		defer appOpts.RateLimiter.Stop()
	}
	app := web.NewApp(web.NewHandlers(home, listing, article), appOpts)

	errCh := make(chan error, 1)
	go func() {
		log.GlobalInfo("starting server", "app", cfg.Server.AppName, "port", cfg.Server.Port, "upstream", cfg.Upstream.BaseURL)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case s := <-sig:
		log.GlobalInfo("shutting down", "signal", s.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.GlobalError("shutdown failed", "error", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var t log.Transporter
	switch strings.ToLower(cfg.Format) {
	case "text":
		t = transporters.NewText()
	default:
		t = transporters.NewStdout()
	}
	return log.New(level, t), nil
}
