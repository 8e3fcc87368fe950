package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/internal/proxy"
)

// HTTPScraper fetches pages over plain HTTP
type HTTPScraper struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	Robots *RobotsChecker
}

// NewHTTPScraper creates a new HTTP scraper
func NewHTTPScraper(config *config.AppConfig) *HTTPScraper {
	s := &HTTPScraper{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
	}
	if config.Scraper.RespectRobots {
		s.Robots = NewRobotsChecker()
	}
	return s
}

// Fetch downloads and parses the page, retrying failures with a linear backoff
func (s *HTTPScraper) Fetch(ctx context.Context, url string) (*Page, error) {
	page := &Page{URL: url}
	userAgent := s.userAgent()

	transport := &http.Transport{}
	if s.Config.Proxies.Enabled && len(s.Config.Proxies.List) > 0 {
		proxyUsed, err := s.Proxy.ApplyToTransport(transport)
		if err != nil {
			return page, fmt.Errorf("apply proxy: %w", err)
		}
		page.ProxyUsed = proxyUsed
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   s.Config.Scraper.Timeout,
	}

	if s.Robots != nil && !s.Robots.Allowed(ctx, client, url, userAgent) {
		return page, fmt.Errorf("%w: %s", ErrDisallowed, url)
	}

	var lastErr error
	for page.Retries = 0; page.Retries <= s.Config.Scraper.MaxRetries; page.Retries++ {
		if page.Retries > 0 {
			retryWait := s.Config.Scraper.RetryDelay * time.Duration(page.Retries)
			log.Info().
				Str("url", url).
				Dur("wait", retryWait).
				Int("attempt", page.Retries).
				Int("max_retries", s.Config.Scraper.MaxRetries).
				Msg("Retrying page fetch")

			select {
			case <-ctx.Done():
				return page, ctx.Err()
			case <-time.After(retryWait):
			}

			if s.Config.Proxies.Enabled && s.Config.Proxies.Rotate && len(s.Config.Proxies.List) > 1 {
				page.ProxyUsed, _ = s.Proxy.ApplyToTransport(transport)
			}
		}

		doc, status, err := s.get(ctx, client, url, userAgent)
		page.StatusCode = status
		if err != nil {
			lastErr = err
			continue
		}

		page.Doc = doc
		return page, nil
	}

	page.Retries = s.Config.Scraper.MaxRetries
	return page, lastErr
}

func (s *HTTPScraper) get(ctx context.Context, client *http.Client, url, userAgent string) (*goquery.Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	// NewDocumentFromResponse keeps the page URL for resolving image sources.
	doc, err := goquery.NewDocumentFromResponse(resp)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return doc, resp.StatusCode, nil
}

func (s *HTTPScraper) userAgent() string {
	agents := s.Config.Scraper.UserAgents
	if len(agents) == 0 {
		return ""
	}
	return agents[rand.Intn(len(agents))]
}
