// Package pipeline runs the GOTY analysis stages in order: load, clean,
// transform, describe, regress, evaluate the hypothesis and plot.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/KaramelBytes/gotystats/internal/dataset"
	"github.com/KaramelBytes/gotystats/internal/plot"
	"github.com/KaramelBytes/gotystats/internal/report"
	"github.com/sirupsen/logrus"
)

// Options for one run.
type Options struct {
	DataPath string
	Alpha    float64
	// SkipPlot leaves Result.Figure nil.
	SkipPlot bool
	Plot     plot.Options
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		DataPath: dataset.DefaultPath,
		Alpha:    analysis.DefaultAlpha,
		Plot:     plot.DefaultOptions(),
	}
}

// Result holds every intermediate value of a run.
type Result struct {
	Raw      *dataset.Table
	Clean    *dataset.Table
	Stats    dataset.CleanStats
	Skewness float64
	Summary  *analysis.Summary
	Fit      *analysis.OLSResult
	Verdict  analysis.Verdict
	// Figure is the rendered PNG, nil when plotting was skipped.
	Figure []byte
}

// Run executes the pipeline, printing the console report to out in order.
// A failing stage stops the run before anything later is printed.
func Run(opt Options, out io.Writer, log logrus.FieldLogger) (*Result, error) {
	if opt.Alpha <= 0 || opt.Alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %g", opt.Alpha)
	}
	if !opt.SkipPlot {
		if err := opt.Plot.Validate(); err != nil {
			return nil, fmt.Errorf("plot options: %w", err)
		}
	}
	p := report.New(out)
	res := &Result{}

	start := time.Now()
	raw, err := dataset.Load(opt.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Raw = raw
	log.WithFields(logrus.Fields{"stage": "load", "rows": raw.Len(), "columns": len(raw.Columns()), "elapsed": time.Since(start)}).Debug("dataset loaded")

	clean, st, err := dataset.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	res.Stats = st
	fields := logrus.Fields{"stage": "clean", "rows_in": st.RowsIn, "rows_out": st.RowsOut}
	for col, n := range st.Unparsable {
		fields["unparsable_"+col] = n
	}
	entry := log.WithFields(fields)
	if st.Dropped() > 0 {
		entry.Warn("dropped rows with non-numeric critical values")
	} else {
		entry.Debug("all rows numeric")
	}

	votes, err := clean.Floats(dataset.ColVotes)
	if err != nil {
		return nil, err
	}
	res.Skewness = analysis.Skewness(votes)
	p.Skewness(res.Skewness)

	clean, err = dataset.AddLogVotes(clean)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	res.Clean = clean
	p.TransformNotice()

	res.Summary, err = analysis.Describe(clean, analysis.DescribeColumns)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	p.Describe(res.Summary)

	logVotes, err := clean.Floats(dataset.ColLogVotes)
	if err != nil {
		return nil, err
	}
	score, err := clean.Floats(dataset.ColUserScore)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	res.Fit, err = analysis.FitOLS(dataset.ColLogVotes, dataset.ColUserScore, logVotes, score)
	if err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	log.WithFields(logrus.Fields{
		"stage":   "regression",
		"n":       res.Fit.N,
		"coef":    res.Fit.Coef(),
		"p_value": res.Fit.PValue(),
		"r2":      res.Fit.RSquared,
		"elapsed": time.Since(start),
	}).Debug("model fitted")
	p.Regression(res.Fit)

	res.Verdict = analysis.EvaluateHypothesis(res.Fit.Coef(), res.Fit.PValue(), opt.Alpha)
	p.Hypothesis(res.Fit.Coef(), res.Fit.PValue(), res.Verdict)
	log.WithFields(logrus.Fields{"stage": "hypothesis", "alpha": opt.Alpha, "verdict": res.Verdict}).Info("hypothesis evaluated")

	if opt.SkipPlot {
		return res, nil
	}
	wins, err := clean.Strings(dataset.ColWins)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	res.Figure, err = plot.Render(plot.Input{
		Votes:     votes,
		LogVotes:  logVotes,
		UserScore: score,
		Wins:      wins,
		Skewness:  res.Skewness,
		Fit:       res.Fit,
	}, opt.Plot)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	if _, skipped := plot.GroupByWins(wins, logVotes); skipped > 0 {
		log.WithFields(logrus.Fields{"stage": "plot", "rows": skipped}).Warn("rows with Wins outside 0/1 left out of the boxplot")
	}
	log.WithFields(logrus.Fields{"stage": "plot", "bytes": len(res.Figure), "elapsed": time.Since(start)}).Debug("figure rendered")
	return res, nil
}
