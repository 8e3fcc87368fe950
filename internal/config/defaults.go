package config

import "time"

// DefaultScorerEndpoint is the local trust scorer
const DefaultScorerEndpoint = "http://127.0.0.1:8000/trust_score"

// DefaultErrorDismiss is how long the error indicator stays on the page
const DefaultErrorDismiss = 5 * time.Second

// DefaultMaxReviews bounds the review sample sent to the scorer
const DefaultMaxReviews = 5

// DefaultReviewSelectors are the alternative review body selectors
var DefaultReviewSelectors = []string{
	".review-text-content",
	".review-text",
	"[data-hook=review-body]",
}

// DefaultUserAgents provides a list of common user agents
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}
