// Package scorer talks to the external trust scoring service.
package scorer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

var (
	// ErrUnavailable means the scorer could not be reached or answered with a non-2xx status.
	ErrUnavailable = errors.New("trust scorer unavailable")

	// ErrMalformed means the scorer answered with a body that is not a valid score result.
	ErrMalformed = errors.New("malformed trust score response")
)

// maxResponseBytes bounds how much of a scorer response is read
const maxResponseBytes = 1 << 20

// Client posts snapshots to the trust scorer
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      *gocache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a scorer client. A zero timeout leaves the transport
// defaults in charge; a zero cache TTL disables result caching.
func NewClient(cfg *config.ScorerConfig) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cacheTTL:   cfg.CacheTTL,
	}
	if cfg.CacheTTL > 0 {
		c.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// FetchScore posts the snapshot once and returns the validated result.
// Every failure is returned as an error wrapping ErrUnavailable or ErrMalformed.
func (c *Client) FetchScore(ctx context.Context, snap models.ProductSnapshot) (*models.ScoreResult, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := cacheKey(body)
	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			log.Debug().Str("endpoint", c.endpoint).Msg("Trust score served from cache")
			result := cached.(models.ScoreResult)
			return &result, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Trust scorer responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	result, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, *result, c.cacheTTL)
	}
	return result, nil
}

func cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
