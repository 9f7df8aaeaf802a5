package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memocache/internal/admin"
	"memocache/internal/config"
	"memocache/internal/logs"
	"memocache/internal/metrics"
	"memocache/internal/store"
	"memocache/internal/ttl"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults are used when empty)")
	wait := flag.Duration("wait", 0, "how long to keep running after the demo before printing again")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	// Root context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger
	logger := logs.NewLogger(cfg.Log.Buffer, cfg.LogLevel())
	logger.SetOutput(os.Stderr)

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Store
	cache := store.NewStore(
		store.WithMaxEntries(cfg.Cache.MaxEntries),
		store.WithMetrics(metricsRegistry),
		store.WithLogger(logger),
	)

	// TTL cleaner
	scheduler, err := newScheduler(cfg.Cleanup, logger)
	if err != nil {
		log.Fatal(err)
	}
	go ttl.NewCleaner(cache, scheduler, logger, metricsRegistry).Start(ctx)

	// Admin
	if cfg.Admin.Addr != "" {
		handler, err := admin.NewHandler(cache, metricsRegistry, logger)
		if err != nil {
			log.Fatal(err)
		}
		server := &http.Server{
			Addr:              cfg.Admin.Addr,
			Handler:           admin.RegisterRoutes(http.NewServeMux(), handler),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin endpoint listening", "addr", cfg.Admin.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin endpoint failed", "error", err)
			}
		}()
		defer server.Close()
	}

	demo(cache)

	if *wait <= 0 {
		return
	}

	select {
	case <-time.After(*wait):
	case <-ctx.Done():
		return
	}

	fmt.Println("After clearing expired entries:")
	number, ok := store.Get[int32](cache, "number")
	printValue("number", number, ok)
	text, ok := store.Get[string](cache, "text")
	printValue("text", text, ok)
}

func newScheduler(cfg config.CleanupConfig, logger *logs.Logger) (ttl.Scheduler, error) {
	if cfg.Scheduler == config.SchedulerCron {
		return ttl.Cron(cfg.Cron, logger)
	}
	return ttl.Interval(cfg.Interval)
}

func demo(cache *store.Store) {
	store.Set(cache, "number", int32(42), 60*time.Second)
	store.Set(cache, "list", []int32{1, 2, 3}, 60*time.Second)
	store.Set(cache, "text", "Hello, memocache!", 120*time.Second)

	small, ok := store.Get[uint16](cache, "number")
	printValue("number as uint16", small, ok)
	number, ok := store.Get[int32](cache, "number")
	printValue("number as int32", number, ok)

	list, ok := store.Get[[]int32](cache, "list")
	printValue("list", list, ok)
	cache.Remove("list")
	list, ok = store.Get[[]int32](cache, "list")
	printValue("list after remove", list, ok)

	text, ok := store.Get[string](cache, "text")
	printValue("text", text, ok)
	text, ok = store.Get[string](cache, "text2")
	printValue("text2", text, ok)

	greeting, err := store.GetOrLoad(cache, "text2", time.Minute, func() (string, error) {
		return "default", nil
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("text2 with loader: %q\n", greeting)
}

func printValue[T any](label string, v T, ok bool) {
	if !ok {
		fmt.Printf("Value for %s: none\n", label)
		return
	}
	fmt.Printf("Value for %s: %v\n", label, v)
}
