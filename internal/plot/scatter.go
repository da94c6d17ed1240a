package plot

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const (
	ciLevel    = 0.95
	linePoints = 100
)

var (
	pointColor = drawing.Color{R: 128, G: 128, B: 128, A: 102}
	lineColor  = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	bandColor  = drawing.Color{R: 214, G: 39, B: 40, A: 140}
)

// scatterChart plots User-Score against log votes with the supplied fit and
// its confidence band. The line is never re-estimated here.
func scatterChart(x, y []float64, fit Fit) (chart.Chart, error) {
	if len(x) == 0 {
		return chart.Chart{}, fmt.Errorf("scatter: no data")
	}
	xmin, xmax := paddedRange(x)

	lx := make([]float64, linePoints)
	floats.Span(lx, xmin, xmax)
	ly := make([]float64, linePoints)
	lo := make([]float64, linePoints)
	hi := make([]float64, linePoints)
	for i, v := range lx {
		ly[i] = fit.Predict(v)
		lo[i], hi[i] = fit.MeanCI(v, ciLevel)
	}
	ymin, ymax := paddedRange(append(append(append([]float64(nil), y...), lo...), hi...))

	band := chart.Style{StrokeColor: bandColor, StrokeWidth: 1, StrokeDashArray: []float64{4, 4}}
	return chart.Chart{
		Title:      fmt.Sprintf("Regressão: Popularidade vs User-Score (Coef: %.2f)", fit.Coef()),
		TitleStyle: panelTitleStyle(),
		Background: panelBackground(),
		XAxis: chart.XAxis{
			Name:           "Popularidade (Logaritmo Votes)",
			Range:          &chart.ContinuousRange{Min: xmin, Max: xmax},
			ValueFormatter: oneDecimalFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "User-Score",
			Range:          &chart.ContinuousRange{Min: ymin, Max: ymax},
			ValueFormatter: oneDecimalFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "jogos",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    pointColor,
				},
				XValues: x,
				YValues: y,
			},
			chart.ContinuousSeries{Name: "ic inferior", Style: band, XValues: lx, YValues: lo},
			chart.ContinuousSeries{Name: "ic superior", Style: band, XValues: lx, YValues: hi},
			chart.ContinuousSeries{
				Name:    "regressão",
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2},
				XValues: lx,
				YValues: ly,
			},
		},
	}, nil
}

// paddedRange returns [min, max] widened by 5% on each side, never empty.
func paddedRange(xs []float64) (float64, float64) {
	lo, hi := floats.Min(xs), floats.Max(xs)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}
