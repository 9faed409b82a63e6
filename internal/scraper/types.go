package scraper

import (
	"net/http"
	"time"
)

// Item is the flat record extracted from one product container on a listing
// page. Fields hold text exactly as displayed by the site; no numeric or
// currency parsing is applied.
type Item struct {
	// Title is the full book title, taken from the title attribute of the
	// product anchor when present.
	Title string `json:"title"`
	// Price is the displayed price string, including the currency symbol.
	Price string `json:"price"`
	// Availability is the stock message, for example "In stock (22 available)".
	Availability string `json:"availability"`
	// Rating is the capitalized star-rating word (One through Five), or empty
	// when the container carries no recognizable rating class.
	Rating string `json:"rating"`
	// ProductPage is the absolute URL of the product detail page.
	ProductPage string `json:"product_page"`
}

// FetchRequest identifies one listing page to retrieve.
type FetchRequest struct {
	// URL is the absolute page URL.
	URL string
	// Page is the 1-based listing page number.
	Page int
	// Headers are added to the outgoing request on top of the fetcher's
	// session defaults.
	Headers http.Header
}

// FetchResponse is the payload returned by a successful fetch.
type FetchResponse struct {
	// URL is the final page URL after any redirects.
	URL string
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Headers holds the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
	// Duration measures the round trip.
	Duration time.Duration
}

// ResultSet accumulates Items in arrival order: page order first, document
// order within a page.
type ResultSet struct {
	items []Item
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// Append adds items to the end of the set, preserving their order.
func (rs *ResultSet) Append(items ...Item) {
	rs.items = append(rs.items, items...)
}

// Len reports the number of accumulated items.
func (rs *ResultSet) Len() int {
	return len(rs.items)
}

// Records returns a copy of the accumulated items in insertion order.
func (rs *ResultSet) Records() []Item {
	out := make([]Item, len(rs.items))
	copy(out, rs.items)
	return out
}

// RunReport summarizes one completed scrape run.
type RunReport struct {
	// RunID is the run's UUID in string form.
	RunID string
	// StartedAt and FinishedAt bound the run wall time.
	StartedAt  time.Time
	FinishedAt time.Time
	// Pages is the number of listing pages fetched.
	Pages int
	// Records holds the aggregated items in scrape order.
	Records []Item
}
