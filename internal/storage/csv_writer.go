package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

// Header is the fixed CSV column order. Consumers depend on it; do not
// reorder.
var Header = []string{"title", "price", "availability", "rating", "product_page"}

// CSVWriter serializes a result set to a CSV file with a fixed header row.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer targeting path. Parent directories are
// created and the file is overwritten when Write is invoked.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file location.
func (w *CSVWriter) Path() string {
	return w.path
}

// Write creates or overwrites the target file with the header row followed
// by one row per item in order. Failures are returned as
// *scraper.WriteError.
func (w *CSVWriter) Write(_ context.Context, items []scraper.Item) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &scraper.WriteError{Target: w.path, Err: fmt.Errorf("create output dir: %w", err)}
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return &scraper.WriteError{Target: w.path, Err: err}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		_ = f.Close()
		return &scraper.WriteError{Target: w.path, Err: fmt.Errorf("write header: %w", err)}
	}
	for _, item := range items {
		row := []string{item.Title, item.Price, item.Availability, item.Rating, item.ProductPage}
		if err := cw.Write(row); err != nil {
			_ = f.Close()
			return &scraper.WriteError{Target: w.path, Err: fmt.Errorf("write row: %w", err)}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return &scraper.WriteError{Target: w.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &scraper.WriteError{Target: w.path, Err: err}
	}
	return nil
}
