package plot

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bins is a histogram: len(Edges) == len(Counts)+1.
type Bins struct {
	Edges  []float64
	Counts []int
}

// Width of one bin.
func (b Bins) Width() float64 {
	if len(b.Edges) < 2 {
		return 0
	}
	return b.Edges[1] - b.Edges[0]
}

// Histogram counts xs into n equal-width bins spanning [min, max]. The last
// bin is closed on the right. Constant input gets a unit-wide range.
func Histogram(xs []float64, n int) Bins {
	if len(xs) == 0 || n < 1 {
		return Bins{}
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	b := Bins{Edges: make([]float64, n+1), Counts: make([]int, n)}
	floats.Span(b.Edges, lo, hi)
	w := (hi - lo) / float64(n)
	for _, x := range xs {
		i := int((x - lo) / w)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		b.Counts[i]++
	}
	return b
}

// Bandwidth is Scott's rule: sample std * n^(-1/5).
func Bandwidth(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil) * math.Pow(float64(len(xs)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of xs at each grid point.
// It returns nil when the bandwidth is zero.
func KDE(xs, grid []float64) []float64 {
	h := Bandwidth(xs)
	if h == 0 {
		return nil
	}
	norm := 1 / (float64(len(xs)) * h)
	out := make([]float64, len(grid))
	for i, g := range grid {
		var s float64
		for _, x := range xs {
			s += distuv.UnitNormal.Prob((g - x) / h)
		}
		out[i] = s * norm
	}
	return out
}

const kdeGridPoints = 200

func histogramChart(votes []float64, skew float64, opt Options) (chart.Chart, error) {
	bins := Histogram(votes, opt.Bins)
	if len(bins.Counts) == 0 {
		return chart.Chart{}, fmt.Errorf("histogram: no data")
	}
	// Only the view is clipped; bins and density use every row.
	viewMin := 0.0
	viewMax := analysis.QuantileOf(votes, opt.ViewQuantile)
	if viewMax <= viewMin {
		viewMax = bins.Edges[len(bins.Edges)-1]
	}
	if viewMax <= viewMin {
		viewMax = viewMin + 1
	}
	maxCount := 0
	for _, c := range bins.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	yMax := math.Max(1, float64(maxCount)*1.05)

	color := mustColor(opt.HistColor)
	fill := color
	fill.A = 110

	grid := make([]float64, kdeGridPoints)
	floats.Span(grid, viewMin, viewMax)
	scale := float64(len(votes)) * bins.Width()
	density := KDE(votes, grid)
	kdeY := make([]float64, len(grid))
	for i := range grid {
		if density != nil {
			kdeY[i] = math.Min(density[i]*scale, yMax)
		}
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Distribuição de votos (Skewness: %.2f)", skew),
		TitleStyle: panelTitleStyle(),
		Background: panelBackground(),
		XAxis: chart.XAxis{
			Name:           "Quantidade de votos (Votes)",
			Range:          &chart.ContinuousRange{Min: viewMin, Max: viewMax},
			ValueFormatter: integerFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Frequência",
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: integerFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "kde",
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
				XValues: grid,
				YValues: kdeY,
			},
		},
	}
	f := frame{xmin: viewMin, xmax: viewMax, ymin: 0, ymax: yMax}
	ch.Elements = []chart.Renderable{
		func(r chart.Renderer, box chart.Box, _ chart.Style) {
			f.box = box
			r.SetFillColor(fill)
			r.SetStrokeColor(drawing.ColorWhite)
			r.SetStrokeWidth(1)
			for i, c := range bins.Counts {
				left := math.Max(bins.Edges[i], viewMin)
				right := math.Min(bins.Edges[i+1], viewMax)
				if c == 0 || left >= right {
					continue
				}
				fillRect(r, f.px(left), f.py(float64(c)), f.px(right), f.py(0))
			}
		},
	}
	return ch, nil
}
