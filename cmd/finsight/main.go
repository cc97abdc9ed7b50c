// cmd/finsight/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/adapters/httpapi"
	"finsight/internal/core/usecases"
	"finsight/internal/platform/cache"
	"finsight/internal/platform/config"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/metrics"
	"finsight/internal/platform/registry"
	"finsight/internal/platform/ui"
	"finsight/internal/sources/exchangerate"
	"finsight/internal/sources/finnhub"

	// Import ad networks for auto-registration via init()
	_ "finsight/internal/adnetworks/adsense"
	_ "finsight/internal/adnetworks/medianet"
	_ "finsight/internal/adnetworks/propeller"

	// Import sources for auto-registration via init()
	_ "finsight/internal/sources/cryptocompare"
	_ "finsight/internal/sources/marketaux"
	_ "finsight/internal/sources/newsapi"
	_ "finsight/internal/sources/rssfeed"
	_ "finsight/internal/sources/yahoohtml"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env opcional para desarrollo local; las claves de API entran
	// por entorno
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("finsight %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	logger := buildLogger(cfg)

	logger.Info("finsight starting",
		"version", version,
		"commit", commit,
		"addr", cfg.Server.Addr(),
	)

	if !cfg.LogJSON {
		ui.Banner(ui.StartupInfo{
			Version:  version,
			Addr:     cfg.Server.Addr(),
			Sources:  cfg.Sources,
			Networks: cfg.Networks,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build news sources from registry (config order = fan-out order)
	sources, err := registry.Global().Build(cfg.Sources, logger)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}
	logger.Info("news sources built", "count", len(sources))

	// Build ad networks from registry (config order = tiebreak order)
	networks, err := registry.Networks().Build(cfg.Networks, logger)
	if err != nil {
		logger.Err(err, "phase", "network-build")
		os.Exit(2)
	}
	logger.Info("ad networks built", "count", len(networks))

	scorer := usecases.NewScoreService(usecases.DefaultScoreConfig())

	pipeline := usecases.NewNewsPipeline(usecases.NewsPipelineOptions{
		Sources: sources,
		Scorer:  scorer,
		Logger:  logger,
	})
	defer pipeline.Close()

	selector := usecases.NewAdSelector(usecases.AdSelectorOptions{
		Networks: networks,
		Store:    metrics.NewRevenueStore(),
		Fallback: usecases.NewFallbackProvider(scorer),
		Logger:   logger,
	})
	defer selector.Close()

	// Pass-through clients
	marketClient := finnhub.New(cfg.Sources["finnhub"], logger)
	forexClient := exchangerate.New(cfg.Forex, logger)

	router := httpapi.NewRouter(httpapi.RouterOptions{
		Pipeline:  pipeline,
		Selector:  selector,
		Market:    marketClient,
		Forex:     forexClient,
		Cache:     cache.NewMemoryCache(256),
		CacheTTL:  cfg.CacheTTL,
		WidgetDir: cfg.WidgetDir,
		Version:   version,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Err(err, "phase", "serve")
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Err(err, "phase", "shutdown")
		os.Exit(1)
	}

	logger.Info("finsight stopped", "drain_ms", time.Since(start).Milliseconds())
}

// buildLogger construye el logger compartido según la configuración.
func buildLogger(cfg config.Config) logx.Logger {
	lvl := logx.ParseLevel(cfg.LogLevel)
	if cfg.LogJSON {
		return logx.NewJSON(lvl)
	}
	return logx.NewWithLevel(lvl)
}
