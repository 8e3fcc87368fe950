// Package pipeline runs one complete page load: fetch, extract, score and
// render the trust badge into the page.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/internal/extraction"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/internal/scraper"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Runner processes product pages
type Runner struct {
	Config    *config.AppConfig
	Scraper   scraper.Scraper
	Scorer    presenter.Scorer
	Extractor *extraction.Extractor
}

// NewRunner wires a runner from the configuration
func NewRunner(cfg *config.AppConfig, s scraper.Scraper, scorer presenter.Scorer) *Runner {
	return &Runner{
		Config:    cfg,
		Scraper:   s,
		Scorer:    scorer,
		Extractor: extraction.NewExtractor(&cfg.Extraction),
	}
}

// Process loads one page and reports the outcome. Failures are recorded
// in the result, never returned.
func (r *Runner) Process(ctx context.Context, rawURL string) models.Result {
	start := time.Now()
	result := models.Result{
		ID:        uuid.NewString(),
		URL:       rawURL,
		Timestamp: start,
	}
	logger := log.With().Str("id", result.ID).Str("url", rawURL).Logger()

	page, err := r.Scraper.Fetch(ctx, rawURL)
	if page != nil {
		result.StatusCode = page.StatusCode
		result.Retries = page.Retries
		result.ProxyUsed = page.ProxyUsed
		result.Screenshot = page.Screenshot
		result.JSRendered = page.JSRendered
	}
	if err != nil {
		logger.Error().Err(err).Int("retries", result.Retries).Msg("Failed to fetch page")
		result.State = presenter.StateFailed.String()
		result.Err = fmt.Sprintf("fetch: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	mount := presenter.NewDocumentMount(page.Doc, r.Config.UI.Isolation)
	ctrl := presenter.NewController(mount, r.Scorer, r.Extractor, r.Config.UI.ErrorDismiss)
	out := ctrl.Run(ctx, page.Doc)
	// The written page keeps whatever indicator was showing.
	ctrl.Stop()

	result.State = out.State.String()
	if !out.Skipped {
		snap := out.Snapshot
		result.Snapshot = &snap
	}
	result.Score = out.Score
	if out.Err != nil {
		result.Err = out.Err.Error()
	}

	if r.Config.IO.RenderDir != "" {
		path, err := r.writeRendered(mount, result.ID, rawURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to write annotated page")
		} else {
			result.RenderedFile = path
		}
	}

	result.Duration = time.Since(start)
	logger.Info().
		Str("state", result.State).
		Dur("duration", result.Duration).
		Msg("Processed page")
	return result
}

func (r *Runner) writeRendered(mount *presenter.DocumentMount, id, rawURL string) (string, error) {
	html, err := mount.Render()
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	if err := os.MkdirAll(r.Config.IO.RenderDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(r.Config.IO.RenderDir, renderName(id, rawURL))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// renderName builds a readable, filesystem-safe file name for a page
func renderName(id, rawURL string) string {
	name := id[:8]
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		prefix := u.Host
		if p := strings.Trim(u.Path, "/"); p != "" {
			prefix += "_" + p
		}
		name = prefix + "-" + name
		name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	}
	return name + ".html"
}
