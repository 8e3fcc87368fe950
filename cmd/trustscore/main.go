package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("trustscore failed")
		os.Exit(1)
	}
}
