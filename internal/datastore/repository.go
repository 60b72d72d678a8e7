// Package datastore persists the passenger series and simulation
// batches in Postgres.
package datastore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
	"github.com/your-org/kalshi-tsa-bot/internal/simulation"
	"github.com/your-org/kalshi-tsa-bot/pkg/calendar"
)

// Pool abstracts pgxpool.Pool for testability.
type Pool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// simColumns mirrors the day order of a settlement period, Monday first.
var simColumns = []string{"m", "t", "w", "th", "f", "sa", "su"}

// Repository handles database operations for the series and the
// per-cutoff simulation tables.
type Repository struct {
	pool   Pool
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(pool Pool, logger *zap.Logger) *Repository {
	return &Repository{pool: pool, logger: logger}
}

// Connect opens a pgx pool and wraps it in a Repository.
func Connect(ctx context.Context, connString string, logger *zap.Logger) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewRepository(pool, logger), nil
}

// Close releases the underlying pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// simsTableName returns the per-cutoff table name, e.g. "25jul20" for a
// cutoff of 2025-07-20.
func simsTableName(cutoff time.Time) string {
	return strings.ToLower(calendar.Token(cutoff))
}

// FetchSeries returns the full passenger series in ascending date order.
func (r *Repository) FetchSeries(ctx context.Context) ([]series.Point, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT date, passengers
        FROM passenger_counts
        ORDER BY date ASC;
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch passenger series: %w", err)
	}
	defer rows.Close()

	var points []series.Point
	for rows.Next() {
		var p series.Point
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// UpsertPoints inserts new series observations, skipping dates that are
// already present. Returns the number of rows actually inserted.
func (r *Repository) UpsertPoints(ctx context.Context, points []series.Point) (int64, error) {
	var inserted int64
	for _, p := range points {
		tag, err := r.pool.Exec(ctx, `
            INSERT INTO passenger_counts (date, passengers)
            VALUES ($1, $2)
            ON CONFLICT (date) DO NOTHING;
        `, p.Date, p.Value)
		if err != nil {
			return inserted, fmt.Errorf("failed to upsert point for %s: %w", p.Date.Format("2006-01-02"), err)
		}
		inserted += tag.RowsAffected()
	}
	r.logger.Info("upserted passenger series",
		zap.Int("scraped", len(points)),
		zap.Int64("inserted", inserted))
	return inserted, nil
}

// CreateSimsTable creates the per-cutoff simulation table if it does not
// exist yet.
func (r *Repository) CreateSimsTable(ctx context.Context, cutoff time.Time) error {
	table := pgx.Identifier{"sims", simsTableName(cutoff)}.Sanitize()
	stmt := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            m  double precision,
            t  double precision,
            w  double precision,
            th double precision,
            f  double precision,
            sa double precision,
            su double precision
        );
    `, table)
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create sims table %s: %w", table, err)
	}
	return nil
}

// InsertSims bulk-loads one simulation batch. Every row must hold a full
// settlement period.
func (r *Repository) InsertSims(ctx context.Context, cutoff time.Time, daily [][]float64) (int64, error) {
	for i, row := range daily {
		if len(row) != simulation.PeriodDays {
			return 0, fmt.Errorf("simulation row %d has %d values, want %d", i, len(row), simulation.PeriodDays)
		}
	}

	name := simsTableName(cutoff)
	src := pgx.CopyFromSlice(len(daily), func(i int) ([]interface{}, error) {
		row := daily[i]
		return []interface{}{row[0], row[1], row[2], row[3], row[4], row[5], row[6]}, nil
	})
	copied, err := r.pool.CopyFrom(ctx, pgx.Identifier{"sims", name}, simColumns, src)
	if err != nil {
		return copied, fmt.Errorf("failed to copy simulation batch into sims.%s: %w", name, err)
	}
	r.logger.Info("stored simulation batch",
		zap.String("table", "sims."+name),
		zap.Int64("rows", copied))
	return copied, nil
}

// FetchSims reads back the stored daily matrix for a cutoff.
func (r *Repository) FetchSims(ctx context.Context, cutoff time.Time) ([][]float64, error) {
	name := simsTableName(cutoff)
	table := pgx.Identifier{"sims", name}.Sanitize()
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT m, t, w, th, f, sa, su FROM %s;`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sims.%s: %w", name, err)
	}
	defer rows.Close()

	var daily [][]float64
	for rows.Next() {
		row := make([]float64, simulation.PeriodDays)
		if err := rows.Scan(&row[0], &row[1], &row[2], &row[3], &row[4], &row[5], &row[6]); err != nil {
			return nil, fmt.Errorf("failed to scan sims row: %w", err)
		}
		daily = append(daily, row)
	}
	return daily, rows.Err()
}
