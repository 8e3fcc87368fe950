package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/williampepple1/trust-score-scraper/internal/extraction"
	"github.com/williampepple1/trust-score-scraper/internal/io"
	"github.com/williampepple1/trust-score-scraper/internal/pipeline"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/internal/scorer"
	"github.com/williampepple1/trust-score-scraper/internal/scraper"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

var (
	scanLive      bool
	scanBrowser   bool
	scanRenderDir string
	scanOutput    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Score a single product page",
	Long: `Scan loads one product page, extracts the product, asks the trust scorer
for a rating and injects the trust badge into the page.

With --render-dir the annotated page is written as HTML. With --live the
page opens in a visible browser and the badge is injected into the tab;
the command then waits until interrupted.

Example:
  trustscore scan https://shop.example/dp/B000123 --render-dir out
  trustscore scan https://shop.example/dp/B000123 --live`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanLive, "live", false, "inject the badge into a visible browser tab")
	scanCmd.Flags().BoolVar(&scanBrowser, "browser", false, "render the page with headless Chrome before scoring")
	scanCmd.Flags().StringVar(&scanRenderDir, "render-dir", "", "write the annotated page to this directory")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write the result report to this file")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if scanBrowser {
		cfg.Browser.Enabled = true
	}
	if scanRenderDir != "" {
		cfg.IO.RenderDir = scanRenderDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scanLive {
		return runLive(ctx, cmd, args[0])
	}

	runner := pipeline.NewRunner(cfg, scraper.New(cfg), scorer.NewClient(&cfg.Scorer))
	result := runner.Process(ctx, args[0])
	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))

	if scanOutput != "" {
		ioCfg := cfg.IO
		ioCfg.OutputFile = scanOutput
		if err := io.NewResultWriter(&ioCfg).SaveToFile([]models.Result{result}); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}

	if result.Score == nil {
		return fmt.Errorf("no trust score for %s", args[0])
	}
	return nil
}

// runLive drives a visible tab: the controller mounts into the page and
// clicks on the badge come back through the DevTools binding
func runLive(ctx context.Context, cmd *cobra.Command, url string) error {
	cfg := appConfig

	tab, err := scraper.OpenLive(ctx, cfg, url, presenter.BindClicks())
	if err != nil {
		return err
	}
	defer tab.Close()

	mount := presenter.NewPageMount(tab.Ctx, cfg.UI.Isolation)
	ctrl := presenter.NewController(mount, scorer.NewClient(&cfg.Scorer), extraction.NewExtractor(&cfg.Extraction), cfg.UI.ErrorDismiss)
	defer ctrl.Stop()
	presenter.ListenClicks(tab.Ctx, ctrl)

	out := ctrl.Run(tab.Ctx, tab.Doc)
	result := models.Result{URL: url, State: out.State.String(), Score: out.Score, JSRendered: true}
	if !out.Skipped {
		snap := out.Snapshot
		result.Snapshot = &snap
	}
	if out.Err != nil {
		result.Err = out.Err.Error()
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))

	log.Info().Str("url", url).Msg("Badge is live in the browser, press Ctrl+C to exit")
	<-tab.Ctx.Done()
	return nil
}
