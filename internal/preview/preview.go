// Package preview renders the post-run console summary: a table of the
// first few scraped records plus quick aggregate stats.
package preview

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

// Stats summarizes a completed result set.
type Stats struct {
	// Total is the number of scraped records.
	Total int
	// TopRating is the most common rating word, empty when no record
	// carries a rating.
	TopRating string
	// DistinctPrices counts unique price strings.
	DistinctPrices int
}

// Summarize computes quick stats over items. Ties on the most common rating
// go to the rating seen first.
func Summarize(items []scraper.Item) Stats {
	ratingCounts := make(map[string]int)
	ratingOrder := make([]string, 0, 5)
	prices := make(map[string]struct{})

	for _, item := range items {
		if item.Rating != "" {
			if _, seen := ratingCounts[item.Rating]; !seen {
				ratingOrder = append(ratingOrder, item.Rating)
			}
			ratingCounts[item.Rating]++
		}
		if item.Price != "" {
			prices[item.Price] = struct{}{}
		}
	}

	top := ""
	best := 0
	for _, rating := range ratingOrder {
		if ratingCounts[rating] > best {
			top = rating
			best = ratingCounts[rating]
		}
	}

	return Stats{
		Total:          len(items),
		TopRating:      top,
		DistinctPrices: len(prices),
	}
}

// RenderTable writes the first rows records of items to w as a bordered
// table. rows <= 0 renders nothing.
func RenderTable(w io.Writer, items []scraper.Item, rows int) {
	if rows <= 0 {
		return
	}
	if rows > len(items) {
		rows = len(items)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Title", "Price", "Availability", "Rating", "Product Page"})
	for _, item := range items[:rows] {
		t.AppendRow(table.Row{item.Title, item.Price, item.Availability, item.Rating, item.ProductPage})
	}
	t.Render()
}

// RenderStats writes the quick stats line for s to w.
func RenderStats(w io.Writer, s Stats) {
	top := s.TopRating
	if top == "" {
		top = "n/a"
	}
	fmt.Fprintf(w, "Scraped %d records | most common rating: %s | distinct prices: %d\n",
		s.Total, top, s.DistinctPrices)
}
