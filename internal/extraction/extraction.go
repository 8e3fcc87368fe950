package extraction

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

// descriptionDelimiter joins feature bullet texts
const descriptionDelimiter = ". "

// Extractor reads product data from a parsed product page
type Extractor struct {
	Config  *config.ExtractionConfig
	Returns ReturnFeedbackSource
}

// NewExtractor creates a new product extractor
func NewExtractor(config *config.ExtractionConfig) *Extractor {
	return &Extractor{
		Config:  config,
		Returns: StaticReturnFeedback{},
	}
}

// Extract builds a ProductSnapshot from the document. Missing elements yield
// empty fields; Extract never fails.
func (e *Extractor) Extract(doc *goquery.Document) models.ProductSnapshot {
	snap := models.ProductSnapshot{
		Images:         []string{},
		TopReviews:     []string{},
		ReturnFeedback: e.Returns.ReturnFeedback(),
	}
	if doc == nil {
		return snap
	}

	snap.Title = e.title(doc)
	snap.Description = e.description(doc)
	snap.Images = e.images(doc)
	snap.TopReviews = e.reviews(doc)
	return snap
}

func (e *Extractor) title(doc *goquery.Document) string {
	if e.Config.Title == "" {
		return ""
	}
	return Normalize(doc.Find(e.Config.Title).First().Text())
}

func (e *Extractor) description(doc *goquery.Document) string {
	if e.Config.FeatureBullets != "" {
		bullets := doc.Find(e.Config.FeatureBullets)
		if bullets.Length() > 0 {
			var parts []string
			bullets.Each(func(_ int, s *goquery.Selection) {
				if text := Normalize(s.Text()); text != "" {
					parts = append(parts, text)
				}
			})
			return strings.Join(parts, descriptionDelimiter)
		}
	}

	if e.Config.FeatureBlock == "" {
		return ""
	}
	return Normalize(doc.Find(e.Config.FeatureBlock).First().Text())
}

func (e *Extractor) images(doc *goquery.Document) []string {
	images := []string{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if !e.isProductImage(s) {
			return
		}
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		src = RewriteImageURL(resolve(doc.Url, strings.TrimSpace(src)))
		if isHTTP(src) {
			images = append(images, src)
		}
	})
	return images
}

func (e *Extractor) isProductImage(s *goquery.Selection) bool {
	if e.Config.LandingImage != "" && s.Is(e.Config.LandingImage) {
		return true
	}
	if e.Config.ImageWrapper != "" && s.ParentsFiltered(e.Config.ImageWrapper).Length() > 0 {
		return true
	}
	return false
}

func (e *Extractor) reviews(doc *goquery.Document) []string {
	reviews := []string{}
	selector := strings.Join(e.Config.Reviews, ", ")
	if selector == "" {
		return reviews
	}

	// Filter over every element keeps DOM order and counts an element
	// matching several selectors once.
	doc.Find("*").Filter(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(reviews) >= e.Config.MaxReviews {
			return false
		}
		reviews = append(reviews, Normalize(s.Text()))
		return true
	})
	return reviews
}

// resolve makes src absolute against the page URL, the way a browser's img.src does
func resolve(base *url.URL, src string) string {
	if base == nil || src == "" {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
