package models

import (
	"time"
)

// ProductSnapshot is the normalized product record sent to the scorer
type ProductSnapshot struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Images         []string `json:"images"`
	TopReviews     []string `json:"top_reviews"`
	ReturnFeedback []string `json:"return_feedback"`
}

// Usable reports whether the snapshot carries enough data to be scored.
// A snapshot without a title or without images is an extraction failure.
func (p ProductSnapshot) Usable() bool {
	return p.Title != "" && len(p.Images) > 0
}

// Dimension is one named sub-score of a ScoreResult
type Dimension struct {
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// ScoreDetails holds the four required sub-scores
type ScoreDetails struct {
	ImageTextAlignment Dimension `json:"image_text_alignment"`
	ReviewAuthenticity Dimension `json:"review_authenticity"`
	LogoVerification   Dimension `json:"logo_verification"`
	ReturnsFeedback    Dimension `json:"returns_feedback"`
}

// ScoreResult is the scorer's answer for one snapshot
type ScoreResult struct {
	TrustScore float64      `json:"trust_score"`
	Details    ScoreDetails `json:"details"`
}

// Result represents the outcome of one page load
type Result struct {
	ID           string           `json:"id"`
	URL          string           `json:"url"`
	Snapshot     *ProductSnapshot `json:"snapshot,omitempty"`
	Score        *ScoreResult     `json:"score,omitempty"`
	State        string           `json:"state"`
	Err          string           `json:"error,omitempty"`
	Duration     time.Duration    `json:"duration"`
	Retries      int              `json:"retries"`
	StatusCode   int              `json:"status_code,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	Screenshot   string           `json:"screenshot,omitempty"`
	JSRendered   bool             `json:"js_rendered,omitempty"`
	ProxyUsed    string           `json:"proxy_used,omitempty"`
	RenderedFile string           `json:"rendered_file,omitempty"`
}
