// Package main is the entry point of the TSA quoting bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/kalshi-tsa-bot/internal/alert"
	"github.com/your-org/kalshi-tsa-bot/internal/config"
	"github.com/your-org/kalshi-tsa-bot/internal/cycle"
	"github.com/your-org/kalshi-tsa-bot/internal/datastore"
	"github.com/your-org/kalshi-tsa-bot/internal/engine"
	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
	httphandler "github.com/your-org/kalshi-tsa-bot/internal/http/handler"
	"github.com/your-org/kalshi-tsa-bot/internal/scraper"
	"github.com/your-org/kalshi-tsa-bot/pkg/calendar"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	dryRun := flag.Bool("dry-run", false, "Log intended orders instead of submitting them")
	intervalMinutes := flag.Int("interval", 0, "Minutes between cycles; 0 runs a single cycle")
	watch := flag.Bool("watch", false, "After quoting, stream market ticker updates until shutdown")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetGlobalLevel(cfg.LogLevel)
	logger.Info("TSA quoting bot starting...")
	logger.Infof("Loaded configuration from: %s", *configPath)
	logger.Infof("Series: %s, draws: %d, dry run: %v", cfg.Trading.SeriesTicker, cfg.Simulation.Draws, *dryRun)

	zapLogger, err := newZapLogger(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := datastore.Migrate(cfg.Database.ConnString()); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}
	repo, err := datastore.Connect(ctx, cfg.Database.ConnString(), zapLogger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	client, err := kalshi.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.AccessKey, cfg.Exchange.PrivateKeyPath)
	if err != nil {
		logger.Fatalf("Failed to create exchange client: %v", err)
	}

	var exec engine.ExecutionEngine
	if *dryRun {
		exec = engine.NewDryRunExecutionEngine()
	} else {
		exec = engine.NewLiveExecutionEngine(client)
	}

	var notifier alert.Notifier
	if cfg.Alert.WebhookURL != "" {
		notifier, err = alert.NewWebhookNotifier(cfg.Alert.WebhookURL, zapLogger)
		if err != nil {
			logger.Fatalf("Failed to create notifier: %v", err)
		}
	} else {
		notifier = alert.NewNoOpNotifier()
	}
	defer notifier.Close()

	go serveHTTP(repo)

	runner := cycle.NewRunner(cfg, repo, scraper.New(cfg.Scraper.URL), client, exec, notifier)

	runCycle := func() {
		if err := runner.RunOnce(ctx); err != nil {
			logger.Errorf("Cycle failed: %v", err)
		}
	}

	runCycle()
	if *watch {
		watchMarkets(ctx, cfg, client)
	}
	if *intervalMinutes <= 0 {
		logger.Info("Single cycle complete, exiting")
		return
	}

	ticker := time.NewTicker(time.Duration(*intervalMinutes) * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down")
			return
		case <-ticker.C:
			runCycle()
		}
	}
}

func newZapLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveHTTP(repo *datastore.Repository) {
	router := chi.NewRouter()
	router.Get("/healthz", httphandler.HealthCheckHandler)
	httphandler.NewStatusHandler(repo).RegisterRoutes(router)

	logger.Info("HTTP server starting on :8080")
	if err := http.ListenAndServe(":8080", router); err != nil {
		logger.Fatalf("HTTP server failed: %v", err)
	}
}

// watchMarkets streams best bid/ask updates for the current event's
// markets until the context ends.
func watchMarkets(ctx context.Context, cfg *config.Config, client *kalshi.Client) {
	event := kalshi.EventTicker(cfg.Trading.SeriesTicker,
		calendar.NextBoundary(time.Now(), time.Sunday))
	markets, err := client.GetMarkets(ctx, event)
	if err != nil {
		logger.Errorf("Failed to list markets for watch mode: %v", err)
		return
	}
	tickers := make([]string, 0, len(markets))
	for _, m := range markets {
		tickers = append(tickers, m.Ticker)
	}
	if len(tickers) == 0 {
		logger.Warnf("No markets to watch in %s", event)
		return
	}

	feed := kalshi.NewTickerFeed(kalshi.WebSocketURL(cfg.Exchange.BaseURL), tickers)
	go func() {
		if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("Ticker feed stopped: %v", err)
		}
	}()
	for update := range feed.Updates() {
		logger.Infof("%s bid=%d ask=%d last=%d", update.Ticker, update.YesBid, update.YesAsk, update.Price)
	}
}
