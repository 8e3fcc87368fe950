package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// BrowserScraper implements browser-based scraping
type BrowserScraper struct {
	Config *config.AppConfig
}

// NewBrowserScraper creates a new browser scraper
func NewBrowserScraper(config *config.AppConfig) *BrowserScraper {
	return &BrowserScraper{Config: config}
}

// NewBrowserContext starts a Chrome instance and returns a context bound to
// a fresh tab. The cancel func shuts the browser down.
func NewBrowserContext(parent context.Context, cfg *config.BrowserConfig, headless bool) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// Fetch loads a URL in a headless browser so scripted content is rendered
func (s *BrowserScraper) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	page := &Page{URL: rawURL, JSRendered: true}

	ctx, cancel := context.WithTimeout(ctx, s.Config.Scraper.Timeout)
	defer cancel()

	browserCtx, closeBrowser := NewBrowserContext(ctx, &s.Config.Browser, s.Config.Browser.Headless)
	defer closeBrowser()

	var html string
	var screenshot []byte
	tasks := []chromedp.Action{
		chromedp.Navigate(rawURL),
		chromedp.Sleep(s.Config.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	}
	if s.Config.Browser.Screenshot {
		tasks = append(tasks, chromedp.CaptureScreenshot(&screenshot))
	}

	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		if ctx.Err() != nil {
			return page, fmt.Errorf("browser timeout: %w", ctx.Err())
		}
		return page, err
	}

	doc, err := ParseDocument(html, rawURL)
	if err != nil {
		return page, err
	}
	page.Doc = doc

	if len(screenshot) > 0 {
		page.Screenshot = s.saveScreenshot(screenshot)
	}
	return page, nil
}

func (s *BrowserScraper) saveScreenshot(data []byte) string {
	if err := os.MkdirAll(s.Config.Browser.ScreenshotDir, 0755); err != nil {
		log.Warn().Err(err).Msg("Error creating screenshot directory")
		return ""
	}
	path := filepath.Join(s.Config.Browser.ScreenshotDir, fmt.Sprintf("%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Warn().Err(err).Msg("Error saving screenshot")
		return ""
	}
	return path
}

// LiveTab is a visible browser tab showing a product page
type LiveTab struct {
	Ctx   context.Context
	Doc   *goquery.Document
	close context.CancelFunc
}

// Close shuts the browser down
func (t *LiveTab) Close() {
	t.close()
}

// OpenLive opens rawURL in a visible browser and keeps the tab attached.
// setup actions run before navigation.
func OpenLive(ctx context.Context, cfg *config.AppConfig, rawURL string, setup ...chromedp.Action) (*LiveTab, error) {
	browserCtx, closeBrowser := NewBrowserContext(ctx, &cfg.Browser, false)

	var html string
	tasks := append(setup,
		chromedp.Navigate(rawURL),
		chromedp.Sleep(cfg.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		closeBrowser()
		return nil, fmt.Errorf("open %s: %w", rawURL, err)
	}

	doc, err := ParseDocument(html, rawURL)
	if err != nil {
		closeBrowser()
		return nil, err
	}
	return &LiveTab{Ctx: browserCtx, Doc: doc, close: closeBrowser}, nil
}

// ParseDocument parses page HTML and records its URL for resolving links
func ParseDocument(html, rawURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(rawURL); err == nil {
		doc.Url = u
	}
	return doc, nil
}
