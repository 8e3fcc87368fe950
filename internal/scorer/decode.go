package scorer

import (
	"encoding/json"
	"fmt"

	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

type wireDimension struct {
	Score   *float64 `json:"score"`
	Summary string   `json:"summary"`
}

type wireResult struct {
	TrustScore *float64 `json:"trust_score"`
	Details    *struct {
		ImageTextAlignment *wireDimension `json:"image_text_alignment"`
		ReviewAuthenticity *wireDimension `json:"review_authenticity"`
		LogoVerification   *wireDimension `json:"logo_verification"`
		ReturnsFeedback    *wireDimension `json:"returns_feedback"`
	} `json:"details"`
}

// Decode parses and validates a scorer response body. The overall score and
// all four sub-scores must be present and within [0,1]; unknown keys are ignored.
func Decode(data []byte) (*models.ScoreResult, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	trust, err := unit("trust_score", w.TrustScore)
	if err != nil {
		return nil, err
	}
	if w.Details == nil {
		return nil, fmt.Errorf("%w: missing details", ErrMalformed)
	}

	result := &models.ScoreResult{TrustScore: trust}
	dims := []struct {
		key  string
		wire *wireDimension
		dst  *models.Dimension
	}{
		{"image_text_alignment", w.Details.ImageTextAlignment, &result.Details.ImageTextAlignment},
		{"review_authenticity", w.Details.ReviewAuthenticity, &result.Details.ReviewAuthenticity},
		{"logo_verification", w.Details.LogoVerification, &result.Details.LogoVerification},
		{"returns_feedback", w.Details.ReturnsFeedback, &result.Details.ReturnsFeedback},
	}
	for _, d := range dims {
		if d.wire == nil {
			return nil, fmt.Errorf("%w: missing details.%s", ErrMalformed, d.key)
		}
		score, err := unit("details."+d.key+".score", d.wire.Score)
		if err != nil {
			return nil, err
		}
		*d.dst = models.Dimension{Score: score, Summary: d.wire.Summary}
	}

	return result, nil
}

func unit(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformed, field)
	}
	if *v < 0 || *v > 1 {
		return 0, fmt.Errorf("%w: %s %v out of range", ErrMalformed, field, *v)
	}
	return *v, nil
}
