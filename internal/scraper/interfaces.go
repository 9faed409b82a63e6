package scraper

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Fetcher retrieves a single listing page over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (FetchResponse, error)
}

// Parser extracts the product records present in one listing page body.
// pageURL is the URL the body was fetched from and anchors relative links.
type Parser interface {
	ParsePage(pageURL string, body []byte) ([]Item, error)
}

// Writer persists a completed result set. Write is invoked once per run and
// must create or overwrite its target so repeated runs converge on the same
// output.
type Writer interface {
	Write(ctx context.Context, items []Item) error
}

// Archiver stores the raw HTML of fetched pages for later inspection. It
// returns the location the page was stored under.
type Archiver interface {
	SavePage(page int, body []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewRunID() (uuid.UUID, error)
}
