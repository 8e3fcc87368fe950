package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

// csvHeader lists the report columns. Scores are percentages as shown on the badge.
var csvHeader = []string{
	"id", "url", "state", "trust_score",
	"image_text_alignment", "review_authenticity", "logo_verification", "returns_feedback",
	"title", "images", "status_code", "retries", "duration_ms", "rendered_file", "error",
}

// ResultWriter writes results to various outputs
type ResultWriter struct {
	Config *config.IOConfig
}

// NewResultWriter creates a new result writer
func NewResultWriter(config *config.IOConfig) *ResultWriter {
	return &ResultWriter{
		Config: config,
	}
}

// SaveToFile saves the results to a file in the specified format
func (w *ResultWriter) SaveToFile(results []models.Result) error {
	switch w.Config.OutputFormat {
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(w.Config.OutputFile, data, 0644)

	case "csv":
		return w.saveCSV(results)

	default:
		return fmt.Errorf("unsupported output format: %s", w.Config.OutputFormat)
	}
}

func (w *ResultWriter) saveCSV(results []models.Result) error {
	file, err := os.Create(w.Config.OutputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return file.Close()
}

func csvRow(r models.Result) []string {
	row := []string{r.ID, r.URL, r.State, "", "", "", "", "", "", "0"}
	if r.Score != nil {
		row[3] = percent(r.Score.TrustScore)
		row[4] = percent(r.Score.Details.ImageTextAlignment.Score)
		row[5] = percent(r.Score.Details.ReviewAuthenticity.Score)
		row[6] = percent(r.Score.Details.LogoVerification.Score)
		row[7] = percent(r.Score.Details.ReturnsFeedback.Score)
	}
	if r.Snapshot != nil {
		row[8] = r.Snapshot.Title
		row[9] = strconv.Itoa(len(r.Snapshot.Images))
	}
	return append(row,
		strconv.Itoa(r.StatusCode),
		strconv.Itoa(r.Retries),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		r.RenderedFile,
		r.Err,
	)
}

func percent(score float64) string {
	return strconv.Itoa(presenter.Percent(score))
}
