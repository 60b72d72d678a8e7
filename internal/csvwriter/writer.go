// Package csvwriter exports the passenger series to CSV files.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

// Writer streams series points into a CSV file.
type Writer struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates the file and writes the header row.
func NewWriter(filePath string, logger *zap.Logger) (*Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := &Writer{
		file:   file,
		writer: csv.NewWriter(file),
		logger: logger,
	}
	if err := w.writer.Write([]string{"date", "passengers"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return w, nil
}

// WritePoint appends one observation.
func (w *Writer) WritePoint(p series.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := []string{
		p.Date.Format("2006-01-02"),
		strconv.FormatFloat(p.Value, 'f', -1, 64),
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// WriteSeries appends every point and flushes.
func (w *Writer) WriteSeries(points []series.Point) error {
	for _, p := range points {
		if err := w.WritePoint(p); err != nil {
			return err
		}
	}
	w.Flush()
	w.logger.Info("exported series to CSV",
		zap.String("file", w.file.Name()),
		zap.Int("rows", len(points)))
	return w.writer.Error()
}

// Flush flushes any buffered data to the underlying file.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.Flush()
	return w.file.Close()
}
