package io

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// ErrNoURLs means neither arguments nor an input file supplied any URL
var ErrNoURLs = errors.New("no URLs to process")

// URLReader reads URLs from various sources
type URLReader struct {
	Config *config.IOConfig
}

// NewURLReader creates a new URL reader
func NewURLReader(config *config.IOConfig) *URLReader {
	return &URLReader{
		Config: config,
	}
}

// ReadFromFile reads URLs from a file, one URL per line. Blank lines and
// lines starting with # are skipped, as are entries that are not absolute
// http(s) URLs.
func (r *URLReader) ReadFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		if !valid(raw) {
			log.Warn().Str("file", filename).Int("line", line).Str("url", raw).Msg("Skipping invalid URL")
			continue
		}
		urls = append(urls, raw)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	return urls, nil
}

// GetURLs returns args when given, otherwise the URLs of the configured input file
func (r *URLReader) GetURLs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if r.Config.InputFile == "" {
		return nil, ErrNoURLs
	}

	urls, err := r.ReadFromFile(r.Config.InputFile)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoURLs, r.Config.InputFile)
	}
	return urls, nil
}

func valid(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
