package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"evcharge-pipeline/models"
)

// CSVWriter exports computed locality figures to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Write header
	if err := w.Write([]string{
		"slug", "name", "region", "install_cost", "annual_savings", "incentive_count",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteFigures appends one row per locality figure.
func (c *CSVWriter) WriteFigures(figures []*models.LocalityFigures) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range figures {
		row := []string{
			f.Slug,
			f.Name,
			f.RegionCode,
			strconv.Itoa(f.InstallCost),
			strconv.FormatFloat(f.AnnualSavings, 'f', 2, 64),
			strconv.Itoa(f.IncentiveCount),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
