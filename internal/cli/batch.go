package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/williampepple1/trust-score-scraper/internal/io"
	"github.com/williampepple1/trust-score-scraper/internal/pipeline"
	"github.com/williampepple1/trust-score-scraper/internal/scorer"
	"github.com/williampepple1/trust-score-scraper/internal/scraper"
	"github.com/williampepple1/trust-score-scraper/internal/worker"
)

var (
	batchInput     string
	batchOutput    string
	batchFormat    string
	batchWorkers   int
	batchRenderDir string
	batchQuiet     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Score many product pages concurrently",
	Long: `Batch scores every URL given as an argument or listed in the input file
(one per line, # starts a comment) with a pool of workers sharing one rate
limit, and writes a JSON or CSV report.

Example:
  trustscore batch --input urls.txt --output report.csv --format csv
  trustscore batch https://shop.example/dp/1 https://shop.example/dp/2 --render-dir out`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "file containing URLs (one per line)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "report file (default from config)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "report format (json or csv)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchRenderDir, "render-dir", "", "write annotated pages to this directory")
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "print only the totals")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if batchInput != "" {
		cfg.IO.InputFile = batchInput
	}
	if batchOutput != "" {
		cfg.IO.OutputFile = batchOutput
	}
	if batchFormat != "" {
		cfg.IO.OutputFormat = batchFormat
	}
	if batchWorkers > 0 {
		cfg.Scraper.Workers = batchWorkers
	}
	if batchRenderDir != "" {
		cfg.IO.RenderDir = batchRenderDir
	}

	urls, err := io.NewURLReader(&cfg.IO).GetURLs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("urls", len(urls)).
		Int("workers", cfg.Scraper.Workers).
		Msg("Starting batch")

	runner := pipeline.NewRunner(cfg, scraper.New(cfg), scorer.NewClient(&cfg.Scorer))
	pool := worker.NewPool(&cfg.Scraper, runner, len(urls))
	results := pool.Run(ctx, urls)

	if !batchQuiet {
		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), renderResult(r))
		}
	}

	if err := io.NewResultWriter(&cfg.IO).SaveToFile(results); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTotals(results, cfg.IO.OutputFile))
	return nil
}
