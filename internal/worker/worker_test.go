package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
	"golang.org/x/time/rate"
)

type recordingProcessor struct {
	mu      sync.Mutex
	seen    []string
	active  int32
	maxSeen int32
	delay   time.Duration
}

func (r *recordingProcessor) Process(ctx context.Context, url string) models.Result {
	n := atomic.AddInt32(&r.active, 1)
	defer atomic.AddInt32(&r.active, -1)
	for {
		m := atomic.LoadInt32(&r.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&r.maxSeen, m, n) {
			break
		}
	}
	time.Sleep(r.delay)

	r.mu.Lock()
	r.seen = append(r.seen, url)
	r.mu.Unlock()
	return models.Result{URL: url, State: "ready"}
}

func TestPool_ProcessesEveryURL(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example"}
	proc := &recordingProcessor{delay: 20 * time.Millisecond}
	pool := NewPool(&config.ScraperConfig{Workers: 2}, proc, len(urls))

	results := pool.Run(context.Background(), urls)
	require.Len(t, results, len(urls))

	var got []string
	for _, r := range results {
		got = append(got, r.URL)
	}
	sort.Strings(got)
	assert.Equal(t, urls, got)
	assert.LessOrEqual(t, atomic.LoadInt32(&proc.maxSeen), int32(2))
}

func TestPool_RateLimitSpacesRequests(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	proc := &recordingProcessor{}
	pool := NewPool(&config.ScraperConfig{Workers: 3, RateLimit: 50 * time.Millisecond}, proc, len(urls))

	start := time.Now()
	pool.Run(context.Background(), urls)

	// The first request passes immediately, the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestPool_CancelledContextFailsRemainingJobs(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	proc := &recordingProcessor{}
	pool := NewPool(&config.ScraperConfig{Workers: 1, RateLimit: time.Hour}, proc, len(urls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Run(ctx, urls)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "failed", r.State)
		assert.NotEmpty(t, r.Err)
		assert.NotEmpty(t, r.ID)
		assert.False(t, r.Timestamp.IsZero())
		assert.GreaterOrEqual(t, r.Duration, time.Duration(0))
	}
	assert.NotEqual(t, results[0].ID, results[1].ID)
	assert.Empty(t, proc.seen)
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewLimiter(0).Limit())
	assert.Equal(t, rate.Every(time.Second), NewLimiter(time.Second).Limit())
}
