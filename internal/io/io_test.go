package io

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/trust-score-scraper/internal/config"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFromFile(t *testing.T) {
	path := writeFile(t, `# product pages
https://shop.example/dp/1

  https://shop.example/dp/2
not-a-url
ftp://shop.example/dp/3
`)

	urls, err := NewURLReader(&config.IOConfig{}).ReadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example/dp/1", "https://shop.example/dp/2"}, urls)
}

func TestGetURLs(t *testing.T) {
	t.Run("args win", func(t *testing.T) {
		r := NewURLReader(&config.IOConfig{InputFile: "does-not-exist.txt"})
		urls, err := r.GetURLs([]string{"https://shop.example/dp/9"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.example/dp/9"}, urls)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := NewURLReader(&config.IOConfig{}).GetURLs(nil)
		assert.ErrorIs(t, err, ErrNoURLs)
	})

	t.Run("empty file", func(t *testing.T) {
		r := NewURLReader(&config.IOConfig{InputFile: writeFile(t, "# nothing\n")})
		_, err := r.GetURLs(nil)
		assert.ErrorIs(t, err, ErrNoURLs)
	})

	t.Run("missing file", func(t *testing.T) {
		r := NewURLReader(&config.IOConfig{InputFile: filepath.Join(t.TempDir(), "missing.txt")})
		_, err := r.GetURLs(nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func sampleResults() []models.Result {
	return []models.Result{
		{
			ID:    "id-1",
			URL:   "https://shop.example/dp/1",
			State: "ready",
			Snapshot: &models.ProductSnapshot{
				Title:  "Kettle, steel",
				Images: []string{"https://img.example/a.jpg", "https://img.example/b.jpg"},
			},
			Score: &models.ScoreResult{
				TrustScore: 0.83,
				Details: models.ScoreDetails{
					ImageTextAlignment: models.Dimension{Score: 0.5},
					ReviewAuthenticity: models.Dimension{Score: 0.004},
					LogoVerification:   models.Dimension{Score: 1},
					ReturnsFeedback:    models.Dimension{Score: 0.72},
				},
			},
			StatusCode: 200,
			Duration:   1500 * time.Millisecond,
		},
		{
			ID:      "id-2",
			URL:     "https://shop.example/dp/2",
			State:   "failed",
			Retries: 3,
			Err:     "fetch: received non-200 status code: 503",
		},
	}
}

func TestSaveToFile_CSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")
	w := NewResultWriter(&config.IOConfig{OutputFile: out, OutputFormat: "csv"})
	require.NoError(t, w.SaveToFile(sampleResults()))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"id-1", "https://shop.example/dp/1", "ready", "83",
		"50", "0", "100", "72",
		"Kettle, steel", "2", "200", "0", "1500", "", "",
	}, rows[1])
	assert.Equal(t, []string{
		"id-2", "https://shop.example/dp/2", "failed", "",
		"", "", "", "",
		"", "0", "0", "3", "0", "", "fetch: received non-200 status code: 503",
	}, rows[2])
}

func TestSaveToFile_JSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.json")
	w := NewResultWriter(&config.IOConfig{OutputFile: out, OutputFormat: "json"})
	require.NoError(t, w.SaveToFile(sampleResults()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got []models.Result
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ready", got[0].State)
	assert.Nil(t, got[1].Score)
	assert.Equal(t, "fetch: received non-200 status code: 503", got[1].Err)
}

func TestSaveToFile_UnsupportedFormat(t *testing.T) {
	w := NewResultWriter(&config.IOConfig{OutputFile: filepath.Join(t.TempDir(), "out"), OutputFormat: "xml"})
	assert.Error(t, w.SaveToFile(nil))
}
