// Package scraper implements the composable catalogue scraping pipeline,
// including the record types, the fetcher/parser/writer contracts, and the
// page-by-page runner that drives a full scrape.
package scraper
