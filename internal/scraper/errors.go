package scraper

import "fmt"

// FetchError reports a listing page that could not be retrieved. Transport
// failures, timeouts, and non-success HTTP statuses all surface as this type.
type FetchError struct {
	// URL is the page that failed.
	URL string
	// StatusCode is the HTTP status when a response was received, zero for
	// transport-level failures.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a fetched page whose catalogue structure could not be
// recognized.
type ParseError struct {
	// URL is the page whose body failed to parse.
	URL string
	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a result set that could not be persisted.
type WriteError struct {
	// Target names the destination, a file path or a database table.
	Target string
	// Err is the underlying cause.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Target, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
