package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/gotystats/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Dir is the per-user configuration directory under $HOME.
const Dir = ".gotystats"

// Global configuration structure.
type Global struct {
	DataPath string  `mapstructure:"data_path" yaml:"data_path"`
	Alpha    float64 `mapstructure:"alpha" yaml:"alpha"`

	// Figure
	HistogramBins int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	ViewQuantile  float64 `mapstructure:"view_quantile" yaml:"view_quantile"`
	FigurePath    string  `mapstructure:"figure_path" yaml:"figure_path"`
	FigureWidth   int     `mapstructure:"figure_width" yaml:"figure_width"`
	FigureHeight  int     `mapstructure:"figure_height" yaml:"figure_height"`
	ColorLost     string  `mapstructure:"color_lost" yaml:"color_lost"`
	ColorWon      string  `mapstructure:"color_won" yaml:"color_won"`
	ShowFigure    bool    `mapstructure:"show_figure" yaml:"show_figure"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultPath returns ~/.gotystats/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, Dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.gotystats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("GOTY")
	v.AutomaticEnv()

	v.SetDefault("data_path", dataset.DefaultPath)
	v.SetDefault("alpha", 0.05)
	v.SetDefault("histogram_bins", 40)
	v.SetDefault("view_quantile", 0.95)
	v.SetDefault("figure_path", "goty_analysis.png")
	v.SetDefault("figure_width", 1800)
	v.SetDefault("figure_height", 600)
	v.SetDefault("color_lost", "#2F9500")
	v.SetDefault("color_won", "#ffcd03")
	v.SetDefault("show_figure", false)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, Dir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges that would otherwise fail deep in the pipeline.
func (c *Global) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", c.Alpha)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be positive, got %d", c.HistogramBins)
	}
	if c.ViewQuantile <= 0 || c.ViewQuantile > 1 {
		return fmt.Errorf("view_quantile must be in (0, 1], got %g", c.ViewQuantile)
	}
	return nil
}
