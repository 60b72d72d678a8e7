// Package main backfills the passenger series from the published page
// and optionally exports it to CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/your-org/kalshi-tsa-bot/internal/config"
	"github.com/your-org/kalshi-tsa-bot/internal/csvwriter"
	"github.com/your-org/kalshi-tsa-bot/internal/datastore"
	"github.com/your-org/kalshi-tsa-bot/internal/scraper"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	csvPath := flag.String("csv", "", "Optional path to export the full stored series as CSV")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.SetGlobalLevel(cfg.LogLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		logger.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	if err := datastore.Migrate(cfg.Database.ConnString()); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}
	repo, err := datastore.Connect(ctx, cfg.Database.ConnString(), zapLogger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	points, err := scraper.New(cfg.Scraper.URL).Fetch(ctx)
	if err != nil {
		logger.Fatalf("Scrape failed: %v", err)
	}
	inserted, err := repo.UpsertPoints(ctx, points)
	if err != nil {
		logger.Fatalf("Failed to store scraped series: %v", err)
	}
	logger.Infof("Scraped %d observations, %d new", len(points), inserted)

	if *csvPath == "" {
		return
	}
	stored, err := repo.FetchSeries(ctx)
	if err != nil {
		logger.Fatalf("Failed to read back series: %v", err)
	}
	w, err := csvwriter.NewWriter(*csvPath, zapLogger)
	if err != nil {
		logger.Fatalf("Failed to create CSV file: %v", err)
	}
	defer w.Close()
	if err := w.WriteSeries(stored); err != nil {
		logger.Fatalf("Failed to export series: %v", err)
	}
}
