package scorer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

const validBody = `{
  "trust_score": 0.72,
  "details": {
    "image_text_alignment": {"score": 0.9, "summary": "Images match the title."},
    "review_authenticity": {"score": 0.5, "summary": "Mixed. Full analysis: Review: short"},
    "logo_verification": {"score": 0.6, "summary": "Brand logo found."},
    "returns_feedback": {"score": 0.88, "summary": "Few complaints."},
    "extra_dimension": {"score": 7}
  }
}`

func testSnapshot() models.ProductSnapshot {
	return models.ProductSnapshot{
		Title:          "Acme Headphones",
		Description:    "Noise cancelling",
		Images:         []string{"https://img.example/a._SL1500_.jpg"},
		TopReviews:     []string{"Great"},
		ReturnFeedback: []string{"Wrong product"},
	}
}

func TestFetchScore_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/trust_score", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields))
		for _, key := range []string{"title", "description", "images", "top_reviews", "return_feedback"} {
			assert.Contains(t, fields, key)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validBody))
	}))
	defer server.Close()

	client := NewClient(&config.ScorerConfig{Endpoint: server.URL + "/trust_score"})
	result, err := client.FetchScore(context.Background(), testSnapshot())

	require.NoError(t, err)
	assert.Equal(t, 0.72, result.TrustScore)
	assert.Equal(t, 0.9, result.Details.ImageTextAlignment.Score)
	assert.Equal(t, "Mixed. Full analysis: Review: short", result.Details.ReviewAuthenticity.Summary)
	assert.Equal(t, 0.88, result.Details.ReturnsFeedback.Score)
}

func TestFetchScore_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, validBody, ErrUnavailable},
		{"not found", http.StatusNotFound, "", ErrUnavailable},
		{"not json", http.StatusOK, "<html>oops</html>", ErrMalformed},
		{"error object", http.StatusOK, `{"error": "model crashed"}`, ErrMalformed},
		{"missing dimension", http.StatusOK, `{"trust_score": 0.5, "details": {
			"image_text_alignment": {"score": 0.5, "summary": ""},
			"review_authenticity": {"score": 0.5, "summary": ""},
			"logo_verification": {"score": 0.5, "summary": ""}}}`, ErrMalformed},
		{"out of range", http.StatusOK, `{"trust_score": 1.5, "details": {}}`, ErrMalformed},
		{"dimension without score", http.StatusOK, `{"trust_score": 0.5, "details": {
			"image_text_alignment": {"summary": ""},
			"review_authenticity": {"score": 0.5, "summary": ""},
			"logo_verification": {"score": 0.5, "summary": ""},
			"returns_feedback": {"score": 0.5, "summary": ""}}}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(&config.ScorerConfig{Endpoint: server.URL})
			result, err := client.FetchScore(context.Background(), testSnapshot())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchScore_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	client := NewClient(&config.ScorerConfig{Endpoint: endpoint})
	result, err := client.FetchScore(context.Background(), testSnapshot())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchScore_NoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(&config.ScorerConfig{Endpoint: server.URL})
	_, err := client.FetchScore(context.Background(), testSnapshot())

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchScore_Cache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(validBody))
	}))
	defer server.Close()

	client := NewClient(&config.ScorerConfig{Endpoint: server.URL, CacheTTL: time.Minute})

	first, err := client.FetchScore(context.Background(), testSnapshot())
	require.NoError(t, err)
	second, err := client.FetchScore(context.Background(), testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	other := testSnapshot()
	other.Title = "Different product"
	_, err = client.FetchScore(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewClient_NoTimeoutByDefault(t *testing.T) {
	client := NewClient(&config.ScorerConfig{Endpoint: config.DefaultScorerEndpoint})

	assert.Zero(t, client.httpClient.Timeout)
	assert.Nil(t, client.cache)
}
