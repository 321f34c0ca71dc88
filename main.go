package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/peterbourgon/ff/v3"

	"github.com/danielmmetz/hn-pulse/api"
	"github.com/danielmmetz/hn-pulse/hn"
	"github.com/danielmmetz/hn-pulse/sse"
	"github.com/danielmmetz/hn-pulse/store"
	"github.com/danielmmetz/hn-pulse/worker"
)

func main() {
	flagSet := flag.NewFlagSet("hn-pulse", flag.ExitOnError)

	var (
		addr            string
		port            int
		hnBaseURL       string
		httpTimeout     time.Duration
		maxInFlight     int
		rps             float64
		refreshInterval time.Duration
		timezone        string
		logLevel        string
		logFormat       string
		cfg             = worker.DefaultConfig()
	)
	flagSet.StringVar(&addr, "addr", "localhost", "Address to listen on")
	flagSet.IntVar(&port, "port", 8080, "Port to listen on")
	flagSet.StringVar(&hnBaseURL, "hn-base-url", hn.DefaultBaseURL, "Base URL of the Hacker News API")
	flagSet.DurationVar(&httpTimeout, "http-timeout", 15*time.Second, "Timeout for each upstream request")
	flagSet.IntVar(&maxInFlight, "max-inflight", 0, "Maximum concurrent upstream requests (0 = unbounded)")
	flagSet.Float64Var(&rps, "requests-per-second", 0, "Upstream request rate limit (0 = unlimited)")
	flagSet.IntVar(&cfg.TopStoriesLimit, "top-stories-limit", cfg.TopStoriesLimit, "Number of top stories fetched")
	flagSet.IntVar(&cfg.SentimentStoriesLimit, "sentiment-stories-limit", cfg.SentimentStoriesLimit, "Number of top stories whose comments are scored")
	flagSet.IntVar(&cfg.CommentsPerStory, "comments-per-story", cfg.CommentsPerStory, "First-level comments scored per story")
	flagSet.IntVar(&cfg.Tree.MaxDepth, "tree-max-depth", cfg.Tree.MaxDepth, "Deepest reply level fetched for a story (top-level comments are 0)")
	flagSet.IntVar(&cfg.Tree.MaxChildren, "tree-max-children", cfg.Tree.MaxChildren, "Replies fetched per comment (0 = all)")
	flagSet.DurationVar(&cfg.StoriesTTL, "stories-ttl", cfg.StoriesTTL, "How long a story batch is served before reloading (0 = always reload)")
	flagSet.DurationVar(&cfg.SentimentsTTL, "sentiments-ttl", cfg.SentimentsTTL, "How long a comment batch is served before reloading (0 = always reload)")
	flagSet.DurationVar(&cfg.LoadTimeout, "load-timeout", cfg.LoadTimeout, "Upper bound on one shared batch or story load (0 = none)")
	flagSet.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh interval (0 = disabled)")
	flagSet.StringVar(&timezone, "timezone", "Local", "IANA time zone for calendar days and hours")
	flagSet.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flagSet.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	flagSet.String("config", "", "Path to a config file of flag-value lines (optional)")

	if err := ff.Parse(flagSet, os.Args[1:],
		ff.WithEnvVarPrefix("HN_PULSE"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	); err != nil {
		slog.Error("failed to parse flags", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(logFormat, logLevel)
	if err != nil {
		slog.Error("invalid logging flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("invalid timezone", "timezone", timezone, "error", err)
		os.Exit(1)
	}

	hnClient := hn.NewClient(hn.Options{
		BaseURL:           hnBaseURL,
		Timeout:           httpTimeout,
		MaxInFlight:       maxInFlight,
		RequestsPerSecond: rps,
	})

	snap := store.NewSnapshot()
	fetcher := worker.NewFetcher(hnClient, snap, cfg)
	broker := sse.NewBroker(100, 30*time.Second)

	workerCtx, workerCancel := context.WithCancel(context.Background())

	if refreshInterval > 0 {
		poller := worker.NewPoller(fetcher, broker, refreshInterval)
		poller.Start(workerCtx)
		slog.Info("background refresh enabled", "interval", refreshInterval)
	}

	handler := api.NewRouter(api.Config{
		Fetcher:  fetcher,
		Snapshot: snap,
		Events:   broker,
		Location: loc,
	})

	// HTTP server with graceful shutdown
	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listenAddr, "hn_base_url", hnBaseURL, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("received signal, shutting down", "signal", sig)

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func newLogger(format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
