package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// Version is set at build time with -ldflags
var Version = "v0.3.0"

var (
	cfgFile   string
	logLevel  string
	appConfig *config.AppConfig
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trustscore",
	Short: "Trust scores for retail product pages",
	Long: `trustscore loads product pages, extracts the product details, asks a
trust scoring service to rate them and injects the trust badge and detail
modal into the page.

Pages are rendered to annotated HTML files, or into a visible browser tab
with scan --live.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trustscore %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("scorer", "", "trust scorer endpoint")
	rootCmd.PersistentFlags().String("isolation", "", "badge isolation (shadow or direct)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("scorer.endpoint", rootCmd.PersistentFlags().Lookup("scorer"))
	_ = viper.BindPFlag("ui.isolation", rootCmd.PersistentFlags().Lookup("isolation"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the configuration: defaults, then the config file,
// then TRUSTSCORE_* environment variables and global flags
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(viper.GetViper())
	setupLogging(cfg.Log)
	cfg.Validate()

	if cfgFile != "" {
		log.Debug().Str("file", cfgFile).Msg("Loaded configuration")
	}
	appConfig = cfg
	return nil
}

// setupLogging configures zerolog from the log section
func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	switch strings.ToLower(cfg.Level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
