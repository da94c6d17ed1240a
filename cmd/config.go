package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/gotystats/internal/config"
	"github.com/KaramelBytes/gotystats/internal/plot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set gotystats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		fmt.Fprintf(out, "alpha: %g\n", cfg.Alpha)
		fmt.Fprintf(out, "histogram_bins: %d\n", cfg.HistogramBins)
		fmt.Fprintf(out, "view_quantile: %g\n", cfg.ViewQuantile)
		fmt.Fprintf(out, "figure_path: %s\n", cfg.FigurePath)
		fmt.Fprintf(out, "figure_width: %d\n", cfg.FigureWidth)
		fmt.Fprintf(out, "figure_height: %d\n", cfg.FigureHeight)
		fmt.Fprintf(out, "color_lost: %s\n", cfg.ColorLost)
		fmt.Fprintf(out, "color_won: %s\n", cfg.ColorWon)
		fmt.Fprintf(out, "show_figure: %t\n", cfg.ShowFigure)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "alpha":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 || f >= 1 {
			return fmt.Errorf("invalid alpha: %s (use a number in (0, 1))", val)
		}
		c.Alpha = f
	case "histogram_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for histogram_bins: %v", val)
		}
		c.HistogramBins = i
	case "view_quantile":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("invalid view_quantile: %s (use a number in (0, 1])", val)
		}
		c.ViewQuantile = f
	case "figure_path":
		c.FigurePath = val
	case "figure_width", "figure_height":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "figure_width" {
			c.FigureWidth = i
		} else {
			c.FigureHeight = i
		}
	case "color_lost", "color_won":
		if _, err := plot.ParseColor(val); err != nil {
			return err
		}
		if key == "color_lost" {
			c.ColorLost = val
		} else {
			c.ColorWon = val
		}
	case "show_figure":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for show_figure: %w", err)
		}
		c.ShowFigure = b
	case "log_level":
		if _, err := logrus.ParseLevel(strings.ToLower(val)); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
