package pipeline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/internal/scorer"
	"github.com/williampepple1/trust-score-scraper/internal/scraper"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

const productPage = `<html><head><title>Kettle</title></head><body>
<span id="productTitle"> Steel   Kettle </span>
<div id="feature-bullets"><ul><li>1.7 litres</li><li>Auto shut-off</li></ul></div>
<div id="imgTagWrapperId"><img id="landingImage" src="/images/I/kettle._SX300_.jpg"></div>
<div class="review-text">Boils fast</div>
</body></html>`

const scoreBody = `{
  "trust_score": 0.82,
  "details": {
    "image_text_alignment": {"score": 0.9, "summary": "Matches"},
    "review_authenticity": {"score": 0.7, "summary": "Mostly genuine. Full analysis: Review: varied wording; Image: real photos"},
    "logo_verification": {"score": 0.8, "summary": "Brand logo found"},
    "returns_feedback": {"score": 0.85, "summary": "Few complaints"}
  }
}`

type servers struct {
	page   *httptest.Server
	scorer *httptest.Server

	mu        sync.Mutex
	snapshots []models.ProductSnapshot
}

func (s *servers) received() []models.ProductSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProductSnapshot(nil), s.snapshots...)
}

func newServers(t *testing.T, scoreStatus int) *servers {
	t.Helper()
	s := &servers{}

	s.page = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/empty" {
			fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
			return
		}
		fmt.Fprint(w, productPage)
	}))
	t.Cleanup(s.page.Close)

	s.scorer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var snap models.ProductSnapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err == nil {
			s.mu.Lock()
			s.snapshots = append(s.snapshots, snap)
			s.mu.Unlock()
		}
		w.WriteHeader(scoreStatus)
		fmt.Fprint(w, scoreBody)
	}))
	t.Cleanup(s.scorer.Close)

	return s
}

func newRunner(t *testing.T, s *servers) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Scraper.MaxRetries = 0
	cfg.Scraper.Timeout = 2 * time.Second
	cfg.Scorer.Endpoint = s.scorer.URL
	cfg.IO.RenderDir = t.TempDir()

	return NewRunner(cfg, scraper.NewHTTPScraper(cfg), scorer.NewClient(&cfg.Scorer))
}

func TestProcess_ScoresAndRendersPage(t *testing.T) {
	s := newServers(t, http.StatusOK)
	runner := newRunner(t, s)

	result := runner.Process(t.Context(), s.page.URL+"/dp/B0001")

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, presenter.StateReady.String(), result.State)
	assert.Empty(t, result.Err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	require.NotNil(t, result.Score)
	assert.InDelta(t, 0.82, result.Score.TrustScore, 1e-9)

	require.NotNil(t, result.Snapshot)
	assert.Equal(t, "Steel Kettle", result.Snapshot.Title)
	assert.Equal(t, "1.7 litres. Auto shut-off", result.Snapshot.Description)
	assert.Equal(t, []string{s.page.URL + "/images/I/kettle._SL1500_.jpg"}, result.Snapshot.Images)

	received := s.received()
	require.Len(t, received, 1)
	assert.Equal(t, *result.Snapshot, received[0])

	require.NotEmpty(t, result.RenderedFile)
	html, err := os.ReadFile(result.RenderedFile)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, `id="trust-score-host"`)
	assert.Contains(t, page, `<div class="trust-score-badge">82%</div>`)
	assert.Contains(t, page, "<li>Review: varied wording</li>")
	assert.NotContains(t, page, `id="trust-score-loader"`)
}

func TestProcess_ScorerErrorFails(t *testing.T) {
	s := newServers(t, http.StatusInternalServerError)
	runner := newRunner(t, s)

	result := runner.Process(t.Context(), s.page.URL+"/dp/B0001")

	assert.Equal(t, presenter.StateFailed.String(), result.State)
	assert.Nil(t, result.Score)
	assert.Contains(t, result.Err, scorer.ErrUnavailable.Error())

	html, err := os.ReadFile(result.RenderedFile)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, presenter.ErrorMessage)
	assert.NotContains(t, page, `id="trust-score-button"`)

	// the written page clears its error indicator on its own
	assert.Contains(t, page, `data-run="1"`)
	assert.Contains(t, page, presenter.DismissScript(1, runner.Config.UI.ErrorDismiss))
}

func TestProcess_InsufficientDataSkipsScorer(t *testing.T) {
	s := newServers(t, http.StatusOK)
	runner := newRunner(t, s)

	result := runner.Process(t.Context(), s.page.URL+"/empty")

	assert.Equal(t, presenter.StateFailed.String(), result.State)
	assert.Equal(t, presenter.ErrInsufficientData.Error(), result.Err)
	assert.Empty(t, s.received())
}

func TestProcess_FetchFailure(t *testing.T) {
	s := newServers(t, http.StatusOK)
	runner := newRunner(t, s)

	result := runner.Process(t.Context(), s.page.URL+"/missing")

	assert.Equal(t, presenter.StateFailed.String(), result.State)
	assert.True(t, strings.HasPrefix(result.Err, "fetch:"))
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Nil(t, result.Snapshot)
	assert.Empty(t, result.RenderedFile)
	assert.Empty(t, s.received())
}

func TestRenderName(t *testing.T) {
	id := "0123456789abcdef"
	assert.Equal(t, "shop.example_dp_B0001-01234567.html", renderName(id, "https://shop.example/dp/B0001"))
	assert.Equal(t, "shop.example-01234567.html", renderName(id, "https://shop.example/"))
	assert.Equal(t, "01234567.html", renderName(id, "not a url"))
}
