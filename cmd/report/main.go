// Package main prints a summary of a stored simulation batch: the
// percentile spread of the weekly average and the probability ladder
// over a set of strikes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/kalshi-tsa-bot/internal/config"
	"github.com/your-org/kalshi-tsa-bot/internal/datastore"
	"github.com/your-org/kalshi-tsa-bot/internal/simulation"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	cutoffFlag := flag.String("cutoff", "", "Batch cutoff date YYYY-MM-DD (default: yesterday)")
	strikesFlag := flag.String("strikes", "", "Comma-separated strike values for the probability ladder")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.SetGlobalLevel(cfg.LogLevel)

	cutoff := time.Now().AddDate(0, 0, -1)
	if *cutoffFlag != "" {
		cutoff, err = time.Parse("2006-01-02", *cutoffFlag)
		if err != nil {
			logger.Fatalf("Invalid -cutoff value %q: %v", *cutoffFlag, err)
		}
	}

	strikes, err := parseStrikes(*strikesFlag)
	if err != nil {
		logger.Fatalf("Invalid -strikes value: %v", err)
	}

	ctx := context.Background()
	repo, err := datastore.Connect(ctx, cfg.Database.ConnString(), zap.NewNop())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	daily, err := repo.FetchSims(ctx, cutoff)
	if err != nil {
		logger.Fatalf("Failed to read simulation batch: %v", err)
	}
	dist, err := simulation.FromDailyRows(daily)
	if err != nil {
		logger.Fatalf("No usable batch for cutoff %s: %v", cutoff.Format("2006-01-02"), err)
	}

	report, err := buildReport(cutoff, dist, strikes)
	if err != nil {
		logger.Fatalf("Failed to build report: %v", err)
	}
	fmt.Print(report)
}

func parseStrikes(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	strikes := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad strike %q: %w", part, err)
		}
		strikes = append(strikes, v)
	}
	return strikes, nil
}

// buildReport renders the percentile spread and, when strikes are given,
// the probability ladder.
func buildReport(cutoff time.Time, dist simulation.Distribution, strikes []float64) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Simulation batch for cutoff %s (%d draws)\n", cutoff.Format("2006-01-02"), len(dist))
	fmt.Fprintf(&b, "Mean weekly average: %.0f\n", dist.Mean())

	for _, pct := range []float64{5, 25, 50, 75, 95} {
		v, err := dist.Percentile(pct)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  p%02.0f: %.0f\n", pct, v)
	}

	if len(strikes) > 0 {
		b.WriteString("Probability ladder:\n")
		for _, strike := range strikes {
			theo, err := simulation.ProbabilityAbove(dist, strike)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  P(avg > %.0f) = %d%%\n", strike, theo)
		}
	}
	return b.String(), nil
}
