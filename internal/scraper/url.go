package scraper

import (
	"fmt"
	"net/url"
)

// PageURL returns the listing URL for the given 1-based page number. Page 1
// is the site root; later pages follow the catalogue/page-N.html convention
// used by the site's pagination.
func PageURL(baseURL string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("page number must be >= 1, got %d", page)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if page == 1 {
		return base.String(), nil
	}

	ref := &url.URL{Path: fmt.Sprintf("catalogue/page-%d.html", page)}
	return base.ResolveReference(ref).String(), nil
}
