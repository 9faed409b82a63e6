package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

func TestCSVWriterRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.csv")
	items := []scraper.Item{
		{
			Title:        "A Light in the Attic",
			Price:        "£51.77",
			Availability: "In stock (22 available)",
			Rating:       "Three",
			ProductPage:  "https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html",
		},
		{
			Title:        "It's Only the Himalayas, Honest",
			Price:        "£45.17",
			Availability: "In stock (19 available)",
			Rating:       "Two",
			ProductPage:  "https://books.toscrape.com/catalogue/its-only-the-himalayas_981/index.html",
		},
	}

	w := NewCSVWriter(path)
	require.NoError(t, w.Write(context.Background(), items))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	require.Equal(t, Header, rows[0])
	for i, item := range items {
		require.Equal(t, []string{item.Title, item.Price, item.Availability, item.Rating, item.ProductPage}, rows[i+1])
	}
}

func TestCSVWriterHeaderOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"title", "price", "availability", "rating", "product_page"}, Header)
}

func TestCSVWriterOverwritesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.csv")
	w := NewCSVWriter(path)

	first := []scraper.Item{
		{Title: "One", Price: "£1.00", Availability: "In stock", Rating: "One", ProductPage: "https://example.com/1"},
		{Title: "Two", Price: "£2.00", Availability: "In stock", Rating: "Two", ProductPage: "https://example.com/2"},
	}
	require.NoError(t, w.Write(context.Background(), first))

	second := []scraper.Item{
		{Title: "Three", Price: "£3.00", Availability: "In stock", Rating: "Three", ProductPage: "https://example.com/3"},
	}
	require.NoError(t, w.Write(context.Background(), second))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	require.Equal(t, "Three", rows[1][0])
}

func TestCSVWriterCreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "nested", "products.csv")
	w := NewCSVWriter(path)
	require.NoError(t, w.Write(context.Background(), nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	require.Equal(t, Header, rows[0])
}

func TestCSVWriterEmptyResultSet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.csv")
	w := NewCSVWriter(path)
	require.NoError(t, w.Write(context.Background(), []scraper.Item{}))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
}

func TestCSVWriterUnwritableTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	// The parent of the target path is a regular file, so MkdirAll fails.
	w := NewCSVWriter(filepath.Join(blocker, "products.csv"))
	err := w.Write(context.Background(), nil)
	require.Error(t, err)

	var writeErr *scraper.WriteError
	require.True(t, errors.As(err, &writeErr), "expected *scraper.WriteError, got %T", err)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read-only handle

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
