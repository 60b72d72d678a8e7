// Package cycle runs one full update-simulate-quote pass: freshness
// gate, series refresh, Monte Carlo batch, and the quoting pass against
// the venue.
package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/your-org/kalshi-tsa-bot/internal/alert"
	"github.com/your-org/kalshi-tsa-bot/internal/config"
	"github.com/your-org/kalshi-tsa-bot/internal/engine"
	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
	"github.com/your-org/kalshi-tsa-bot/internal/forecast"
	"github.com/your-org/kalshi-tsa-bot/internal/position"
	"github.com/your-org/kalshi-tsa-bot/internal/quote"
	"github.com/your-org/kalshi-tsa-bot/internal/residual"
	"github.com/your-org/kalshi-tsa-bot/internal/series"
	"github.com/your-org/kalshi-tsa-bot/internal/simulation"
	"github.com/your-org/kalshi-tsa-bot/pkg/calendar"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

// resetDay is the weekday the settlement period rolls over on.
const resetDay = time.Sunday

// Store is the persistence surface the runner needs.
type Store interface {
	FetchSeries(ctx context.Context) ([]series.Point, error)
	UpsertPoints(ctx context.Context, points []series.Point) (int64, error)
	CreateSimsTable(ctx context.Context, cutoff time.Time) error
	InsertSims(ctx context.Context, cutoff time.Time, daily [][]float64) (int64, error)
	FetchSims(ctx context.Context, cutoff time.Time) ([][]float64, error)
}

// SeriesFetcher pulls fresh observations from the source page.
type SeriesFetcher interface {
	Fetch(ctx context.Context) ([]series.Point, error)
}

// MarketClient is the read-only venue surface of the quoting pass.
type MarketClient interface {
	GetMarkets(ctx context.Context, eventTicker string) ([]kalshi.Market, error)
	GetPositions(ctx context.Context, eventTicker string) ([]kalshi.MarketPosition, error)
}

// Runner wires the collaborators of one trading cycle.
type Runner struct {
	cfg      *config.Config
	store    Store
	fetcher  SeriesFetcher
	markets  MarketClient
	exec     engine.ExecutionEngine
	quoter   *quote.Engine
	notifier alert.Notifier
	now      func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, store Store, fetcher SeriesFetcher, markets MarketClient, exec engine.ExecutionEngine, notifier alert.Notifier) *Runner {
	return &Runner{
		cfg:     cfg,
		store:   store,
		fetcher: fetcher,
		markets: markets,
		exec:    exec,
		quoter: quote.NewEngine(quote.Config{
			MinEdge:           cfg.Trading.MinEdge,
			UnitSizeContracts: cfg.Trading.UnitSizeContracts,
			YesBidLower:       cfg.Trading.YesBidLower,
			YesBidUpper:       cfg.Trading.YesBidUpper,
		}),
		notifier: notifier,
		now:      time.Now,
	}
}

// RunOnce executes one cycle. Model-fit and simulation failures are
// fatal for the cycle: no quoting happens on a partial or estimated
// distribution. Per-market filtering and risk suppression are expected
// control flow and only exclude the affected market or side.
func (r *Runner) RunOnce(ctx context.Context) error {
	if budget := r.cfg.Trading.CycleBudgetSeconds; budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(budget)*time.Second)
		defer cancel()
	}
	now := r.now()

	points, err := r.store.FetchSeries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}

	fresh := r.upToDate(points, now)
	logger.Infof("Series up to date: %v", fresh)
	if !fresh {
		points, err = r.refreshSeries(ctx, points)
		if err != nil {
			return err
		}
		fresh = r.upToDate(points, now)
		logger.Infof("Series up to date after refresh: %v", fresh)
	}

	if !fresh && !bool(r.cfg.Trading.BypassUpToDate) {
		logger.Warn("Series still stale after refresh, not quoting this cycle")
		return nil
	}

	cutoff, ok := series.LastDate(points)
	if !ok {
		return fmt.Errorf("series is empty, nothing to trade on")
	}
	boundary := calendar.NextBoundary(cutoff, resetDay)

	dist, err := r.distributionFor(ctx, points, cutoff, boundary)
	if err != nil {
		r.notify(ctx, fmt.Sprintf("cycle aborted: %v", err))
		return err
	}

	if !fresh && r.inNoTradeWindow(now) {
		logger.Infof("Daily reading pending within no-trade window %s-%s, not quoting",
			r.cfg.Trading.NoTradeStart, r.cfg.Trading.NoTradeEnd)
		return nil
	}

	return r.quotePass(ctx, dist, boundary)
}

// refreshSeries cancels resting orders, re-scrapes the source page and
// reloads the stored series. Orders are pulled first so nothing rests on
// data known to be stale.
func (r *Runner) refreshSeries(ctx context.Context, points []series.Point) ([]series.Point, error) {
	if cutoff, ok := series.LastDate(points); ok {
		event := kalshi.EventTicker(r.cfg.Trading.SeriesTicker, calendar.NextBoundary(cutoff, resetDay))
		if err := r.exec.CancelResting(ctx, event); err != nil {
			logger.Errorf("Failed to pull resting orders before refresh: %v", err)
		}
	}

	scraped, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape series: %w", err)
	}
	if _, err := r.store.UpsertPoints(ctx, scraped); err != nil {
		return nil, fmt.Errorf("failed to store scraped series: %w", err)
	}

	points, err = r.store.FetchSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload series: %w", err)
	}
	return points, nil
}

// distributionFor returns the fair value distribution for the period
// ending on boundary. A stored batch for the cutoff is reused when
// present; otherwise the models are fit and a fresh batch is simulated
// and persisted.
func (r *Runner) distributionFor(ctx context.Context, points []series.Point, cutoff, boundary time.Time) (simulation.Distribution, error) {
	if stored, err := r.store.FetchSims(ctx, cutoff); err == nil && len(stored) > 0 {
		dist, err := simulation.FromDailyRows(stored)
		if err == nil {
			logger.Infof("Reusing stored simulation batch for cutoff %s (%d draws)",
				cutoff.Format("2006-01-02"), len(dist))
			return dist, nil
		}
		logger.Warnf("Stored simulation batch for %s unusable: %v", cutoff.Format("2006-01-02"), err)
	} else if err != nil {
		logger.Warnf("Failed to read stored simulations for %s: %v", cutoff.Format("2006-01-02"), err)
	}

	simCfg := r.cfg.Simulation
	training := series.Window(points, simCfg.TrainingCutoff.Time(), cutoff)
	trendModel, err := forecast.Fit(training, forecast.Config{
		MinObservations:    simCfg.MinObservations,
		YearlyFourierOrder: simCfg.YearlyFourierOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("trend model fit failed: %w", err)
	}

	residualModel, err := residual.Fit(trendModel.Residuals(), simCfg.AROrder, simCfg.DiffOrder, simCfg.MAOrder)
	if err != nil {
		return nil, fmt.Errorf("residual model fit failed: %w", err)
	}

	daysRemaining := calendar.DaysRemaining(cutoff, boundary)
	realized := series.ValuesBetween(points, calendar.PreviousBoundary(cutoff, resetDay), cutoff)
	res, err := simulation.RunDetailed(ctx, simulation.Params{
		Trend:          trendModel.FutureTrend(daysRemaining),
		Simulator:      residualModel,
		Realized:       realized,
		CutoffDate:     cutoff,
		PeriodBoundary: boundary,
		Draws:          simCfg.Draws,
		Seed:           simCfg.Seed,
		Workers:        simCfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("Simulated %d draws for period ending %s", len(res.Distribution), boundary.Format("2006-01-02"))

	// Persistence failures do not abort the cycle: the distribution is
	// already in hand.
	if err := r.store.CreateSimsTable(ctx, cutoff); err != nil {
		logger.Errorf("Failed to create simulation table: %v", err)
	} else if _, err := r.store.InsertSims(ctx, cutoff, res.Daily); err != nil {
		logger.Errorf("Failed to store simulation batch: %v", err)
	}
	return res.Distribution, nil
}

// quotePass prices every market in the event and places the surviving
// quotes.
func (r *Runner) quotePass(ctx context.Context, dist simulation.Distribution, boundary time.Time) error {
	trading := r.cfg.Trading
	event := kalshi.EventTicker(trading.SeriesTicker, boundary)

	positions, err := r.markets.GetPositions(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to fetch positions for %s: %w", event, err)
	}
	portfolio := position.NewPortfolio(positions)

	total := portfolio.TotalNetExposure()
	if total.GreaterThanOrEqual(decimal.NewFromInt(trading.MaxNetExposure)) {
		msg := fmt.Sprintf("portfolio net exposure %s at limit %d, quoting paused for %s",
			total.String(), trading.MaxNetExposure, event)
		logger.Warn(msg)
		r.notify(ctx, msg)
		return nil
	}

	markets, err := r.markets.GetMarkets(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to fetch markets for %s: %w", event, err)
	}

	if err := r.exec.CancelResting(ctx, event); err != nil {
		logger.Errorf("Failed to cancel resting orders for %s: %v", event, err)
	}

	var quotes []quote.Quote
	for _, m := range markets {
		if m.Status != "" && m.Status != "active" {
			continue
		}
		theo, err := simulation.ProbabilityAbove(dist, m.FloorStrike)
		if err != nil {
			return fmt.Errorf("failed to price %s: %w", m.Ticker, err)
		}
		logger.Infof("%s theo=%d bid=%d ask=%d", m.Ticker, theo, m.YesBid, m.YesAsk)

		sides := quote.AllowedSides(portfolio.Book(m.Ticker), trading.MaxNetExposurePerBook)
		if !sides.Yes || !sides.No {
			logger.Warnf("Risk limit reached on %s (yes=%v no=%v)", m.Ticker, sides.Yes, sides.No)
		}
		quotes = append(quotes, r.quoter.Evaluate(m, theo, sides)...)
	}

	if len(quotes) == 0 {
		logger.Infof("No quotes to place for %s", event)
		return nil
	}
	return r.exec.Submit(ctx, quotes)
}

// upToDate reports whether the series ends on the day before now. The
// source publishes each day's reading the following morning.
func (r *Runner) upToDate(points []series.Point, now time.Time) bool {
	last, ok := series.LastDate(points)
	if !ok {
		return false
	}
	expected := now.AddDate(0, 0, -1)
	return last.Year() == expected.Year() && last.YearDay() == expected.YearDay()
}

// inNoTradeWindow reports whether now falls inside the configured
// morning window where the daily reading is expected but not yet posted.
// A zero-width window disables the check.
func (r *Runner) inNoTradeWindow(now time.Time) bool {
	start, end := r.cfg.Trading.NoTradeStart, r.cfg.Trading.NoTradeEnd
	if start == end {
		return false
	}
	return !start.After(now) && !end.Before(now)
}

// notify sends an operator alert, best effort.
func (r *Runner) notify(ctx context.Context, message string) {
	if err := r.notifier.Send(ctx, message); err != nil {
		logger.Errorf("Failed to send alert: %v", err)
	}
}
