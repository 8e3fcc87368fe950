package scraper

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// ErrDisallowed means robots.txt forbids fetching the page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Page is a fetched and parsed product page
type Page struct {
	URL        string
	Doc        *goquery.Document
	StatusCode int
	Retries    int
	ProxyUsed  string
	Screenshot string
	JSRendered bool
}

// Scraper defines the interface for a page source. Fetch returns the page
// metadata gathered so far even when it fails.
type Scraper interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// New creates a new scraper based on the configuration
func New(config *config.AppConfig) Scraper {
	if config.Browser.Enabled {
		return NewBrowserScraper(config)
	}
	return NewHTTPScraper(config)
}
