// Package storage persists scraped result sets to their output targets: the
// CSV file every run produces and the optional Postgres mirror.
package storage
