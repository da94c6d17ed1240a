package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/gotystats/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// log writes diagnostics to stderr; results go to stdout.
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "gotystats",
	Short: "gotystats: does popularity hurt a GOTY nominee's user score?",
	Long: `gotystats loads the Game Awards GOTY nominees dataset, cleans and log-transforms
the vote counts, prints descriptive statistics and an OLS regression of
User-Score on popularity, evaluates the hypothesis and renders a figure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gotystats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	} else {
		cfg = c
	}
	log.SetLevel(logLevel())
}

// logLevel resolves --debug over the configured log_level.
func logLevel() logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	if cfg == nil || cfg.LogLevel == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: unknown log_level %q, using info\n", cfg.LogLevel)
		return logrus.InfoLevel
	}
	return lvl
}

// runLogger tags every entry of one invocation with a fresh run id.
func runLogger() *logrus.Entry {
	return log.WithField("run", uuid.NewString())
}
