package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KaramelBytes/gotystats/internal/pipeline"
	"github.com/KaramelBytes/gotystats/internal/report"
	"github.com/KaramelBytes/gotystats/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaAlpha        float64
	anaBins         int
	anaViewQuantile float64
	anaFigure       string
	anaNoPlot       bool
	anaShow         bool
	anaReport       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [csv]",
	Short: "Run the GOTY popularity vs user score analysis",
	Long: `Loads the nominees CSV, drops rows with non-numeric scores or votes,
applies ln(1+votes), prints the statistical summary and the OLS regression,
states whether more votes mean a lower user score, and writes the figure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := analyzeOptions(cmd, args)
		log := runLogger().WithField("data", opt.DataPath)
		log.Debug("starting analysis")

		var out io.Writer = os.Stdout
		var captured bytes.Buffer
		if anaReport != "" {
			out = io.MultiWriter(os.Stdout, &captured)
		}
		start := time.Now()
		res, err := pipeline.Run(opt, out, log)
		if err != nil {
			return err
		}

		if anaReport != "" {
			if err := utils.SafeWriteFile(anaReport, report.Plain(captured.Bytes())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote report to %s\n", anaReport)
		}
		if res.Figure != nil {
			path := figurePath(cmd)
			if err := utils.SafeWriteFile(path, res.Figure); err != nil {
				return fmt.Errorf("write figure: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote figure to %s\n", path)
			if showFigure(cmd) {
				if err := utils.OpenFile(path); err != nil {
					fmt.Fprintf(os.Stderr, "⚠ Warning: could not open figure: %v\n", err)
				}
			}
		}
		log.WithField("elapsed", time.Since(start)).Info("analysis complete")
		return nil
	},
}

// analyzeOptions merges defaults, config and flags. Flags win only when set.
func analyzeOptions(cmd *cobra.Command, args []string) pipeline.Options {
	opt := pipeline.DefaultOptions()
	if cfg != nil {
		if cfg.DataPath != "" {
			opt.DataPath = cfg.DataPath
		}
		opt.Alpha = cfg.Alpha
		opt.Plot.Bins = cfg.HistogramBins
		opt.Plot.ViewQuantile = cfg.ViewQuantile
		if cfg.FigureWidth > 0 {
			opt.Plot.Width = cfg.FigureWidth
		}
		if cfg.FigureHeight > 0 {
			opt.Plot.Height = cfg.FigureHeight
		}
		if cfg.ColorLost != "" {
			opt.Plot.ColorLost = cfg.ColorLost
		}
		if cfg.ColorWon != "" {
			opt.Plot.ColorWon = cfg.ColorWon
		}
	}
	if len(args) == 1 {
		opt.DataPath = args[0]
	}
	f := cmd.Flags()
	if f.Changed("alpha") {
		opt.Alpha = anaAlpha
	}
	if f.Changed("bins") {
		opt.Plot.Bins = anaBins
	}
	if f.Changed("view-quantile") {
		opt.Plot.ViewQuantile = anaViewQuantile
	}
	opt.SkipPlot = anaNoPlot
	return opt
}

func figurePath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("figure") || cfg == nil || cfg.FigurePath == "" {
		return anaFigure
	}
	return cfg.FigurePath
}

func showFigure(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("show") || cfg == nil {
		return anaShow
	}
	return cfg.ShowFigure
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&anaAlpha, "alpha", 0.05, "significance level for the hypothesis test")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 40, "number of histogram bins")
	analyzeCmd.Flags().Float64Var(&anaViewQuantile, "view-quantile", 0.95, "clip the histogram x axis at this quantile of Votes")
	analyzeCmd.Flags().StringVar(&anaFigure, "figure", "goty_analysis.png", "path of the PNG figure")
	analyzeCmd.Flags().BoolVar(&anaNoPlot, "no-plot", false, "skip rendering the figure")
	analyzeCmd.Flags().BoolVar(&anaShow, "show", false, "open the figure in the system image viewer")
	analyzeCmd.Flags().StringVarP(&anaReport, "report", "o", "", "also write the console report to this file")
}
