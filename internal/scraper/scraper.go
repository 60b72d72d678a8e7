// Package scraper pulls the daily passenger series from the TSA
// checkpoint-volumes page.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

// Scraper fetches and parses the published passenger table.
type Scraper struct {
	url        string
	httpClient *http.Client
}

func New(url string) *Scraper {
	return &Scraper{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the page and returns the series in ascending date
// order.
func (s *Scraper) Fetch(ctx context.Context) ([]series.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape of %s returned status %d", s.url, resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse extracts (date, passengers) rows from the page's first table
// body. The page lists newest first; the result is reversed into
// ascending order. Passenger values carry thousands separators.
func Parse(r io.Reader) ([]series.Point, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scraped page: %w", err)
	}

	body := doc.Find("tbody").First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("no table body found in scraped page")
	}

	var points []series.Point
	var rowErr error
	body.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			rowErr = fmt.Errorf("row %d has %d cells, want at least 2", i, cells.Length())
			return false
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		date, err := time.Parse("1/2/2006", dateText)
		if err != nil {
			rowErr = fmt.Errorf("row %d has unparseable date %q: %w", i, dateText, err)
			return false
		}

		valueText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(1).Text()), ",", "")
		value, err := strconv.ParseFloat(valueText, 64)
		if err != nil {
			rowErr = fmt.Errorf("row %d has unparseable count %q: %w", i, valueText, err)
			return false
		}

		points = append(points, series.Point{Date: date, Value: value})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("scraped table contained no rows")
	}

	// Newest-first on the page, ascending for the series.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}
