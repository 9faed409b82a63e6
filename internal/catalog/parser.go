// Package catalog parses books.toscrape.com listing pages into product
// records using structural goquery selectors.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

// Selectors matching the site's fixed listing structure.
const (
	listSelector         = "ol.row"
	itemSelector         = "article.product_pod"
	titleSelector        = "h3 a"
	priceSelector        = "p.price_color"
	availabilitySelector = "p.instock.availability"
	ratingSelector       = "p.star-rating"
)

// missingFieldText is stored when a price or availability node is absent.
const missingFieldText = "N/A"

// ratingWords maps the lowercase star-rating class token to its stored form.
var ratingWords = map[string]string{
	"one":   "One",
	"two":   "Two",
	"three": "Three",
	"four":  "Four",
	"five":  "Five",
}

// Parser extracts product records from listing page HTML.
type Parser struct {
	logger *zap.Logger
}

// New returns a Parser that reports skipped containers through logger.
func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// ParsePage extracts one record per product container found in body, in
// document order. Containers missing their title anchor are skipped with a
// warning. A body without any recognizable catalogue structure is returned
// as *scraper.ParseError.
func (p *Parser) ParsePage(pageURL string, body []byte) ([]scraper.Item, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &scraper.ParseError{URL: pageURL, Err: fmt.Errorf("build document: %w", err)}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &scraper.ParseError{URL: pageURL, Err: fmt.Errorf("parse page url: %w", err)}
	}

	containers := doc.Find(itemSelector)
	if containers.Length() == 0 && doc.Find(listSelector).Length() == 0 {
		return nil, &scraper.ParseError{URL: pageURL, Err: errors.New("catalogue structure not found")}
	}

	items := make([]scraper.Item, 0, containers.Length())
	containers.Each(func(i int, sel *goquery.Selection) {
		item, ok := extractItem(base, sel)
		if !ok {
			p.logger.Warn("skipping malformed product container",
				zap.String("url", pageURL),
				zap.Int("index", i),
			)
			return
		}
		items = append(items, item)
	})
	return items, nil
}

// extractItem reads the fixed sub-fields of one product container. It
// reports ok=false when the title anchor is missing.
func extractItem(base *url.URL, sel *goquery.Selection) (scraper.Item, bool) {
	anchor := sel.Find(titleSelector).First()
	if anchor.Length() == 0 {
		return scraper.Item{}, false
	}

	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(anchor.Text())
	}

	return scraper.Item{
		Title:        title,
		Price:        textOr(sel, priceSelector, missingFieldText),
		Availability: textOr(sel, availabilitySelector, missingFieldText),
		Rating:       ratingWord(sel),
		ProductPage:  resolveLink(base, anchor),
	}, true
}

// textOr returns the trimmed text of the first node matching selector, or
// fallback when no node matches.
func textOr(sel *goquery.Selection, selector, fallback string) string {
	node := sel.Find(selector).First()
	if node.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(node.Text())
}

// ratingWord extracts the star-rating word from the rating node's class
// list; class="star-rating Three" yields "Three".
func ratingWord(sel *goquery.Selection) string {
	classes := sel.Find(ratingSelector).First().AttrOr("class", "")
	for _, class := range strings.Fields(classes) {
		if word, ok := ratingWords[strings.ToLower(class)]; ok {
			return word
		}
	}
	return ""
}

// resolveLink makes the container's product link absolute against the
// listing page URL.
func resolveLink(base *url.URL, anchor *goquery.Selection) string {
	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
