package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
	"golang.org/x/time/rate"
)

// Processor handles one page load
type Processor interface {
	Process(ctx context.Context, url string) models.Result
}

// Pool manages a pool of worker goroutines
type Pool struct {
	Config    *config.ScraperConfig
	Processor Processor
	Limiter   *rate.Limiter
	Jobs      chan string
	Results   chan models.Result
	WaitGroup *sync.WaitGroup
}

// NewPool creates a new worker pool sized for n URLs
func NewPool(cfg *config.ScraperConfig, processor Processor, n int) *Pool {
	return &Pool{
		Config:    cfg,
		Processor: processor,
		Limiter:   NewLimiter(cfg.RateLimit),
		Jobs:      make(chan string, n),
		Results:   make(chan models.Result, n),
		WaitGroup: &sync.WaitGroup{},
	}
}

// NewLimiter allows one request per interval across all workers. A zero
// interval disables limiting.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Start starts the workers. Results is closed when they are all done.
func (p *Pool) Start(ctx context.Context) {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}

	for w := 1; w <= workers; w++ {
		p.WaitGroup.Add(1)
		go p.worker(ctx, w)
	}

	go func() {
		p.WaitGroup.Wait()
		close(p.Results)
	}()
}

// worker processes URLs from the jobs channel until it is closed or ctx ends
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.WaitGroup.Done()

	for url := range p.Jobs {
		start := time.Now()
		if err := p.Limiter.Wait(ctx); err != nil {
			p.Results <- models.Result{
				ID:        uuid.NewString(),
				URL:       url,
				State:     presenter.StateFailed.String(),
				Err:       err.Error(),
				Duration:  time.Since(start),
				Timestamp: start,
			}
			continue
		}

		log.Debug().Int("worker", id).Str("url", url).Msg("Processing URL")
		p.Results <- p.Processor.Process(ctx, url)
	}
}

// AddJobs queues the URLs and closes the jobs channel
func (p *Pool) AddJobs(urls []string) {
	for _, url := range urls {
		p.Jobs <- url
	}
	close(p.Jobs)
}

// Run processes every URL and returns the results in completion order
func (p *Pool) Run(ctx context.Context, urls []string) []models.Result {
	p.Start(ctx)
	go p.AddJobs(urls)

	results := make([]models.Result, 0, len(urls))
	for result := range p.Results {
		results = append(results, result)
	}
	return results
}
