package plot

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/KaramelBytes/gotystats/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Group labels of the Wins axis.
const (
	LabelLost = "Não Venceu"
	LabelWon  = "Venceu"
)

// Group holds the values of one Wins category.
type Group struct {
	Label  string
	Values []float64
}

// GroupByWins splits values by the Wins column into the "0" and "1" groups,
// in that order. Rows whose Wins is neither 0 nor 1 are counted in skipped.
func GroupByWins(wins []string, values []float64) (groups [2]Group, skipped int) {
	groups[0] = Group{Label: LabelLost}
	groups[1] = Group{Label: LabelWon}
	for i, w := range wins {
		if i >= len(values) {
			break
		}
		v, ok := dataset.ToNumeric(w)
		switch {
		case ok && v == 0:
			groups[0].Values = append(groups[0].Values, values[i])
		case ok && v == 1:
			groups[1].Values = append(groups[1].Values, values[i])
		default:
			skipped++
		}
	}
	return groups, skipped
}

// Box is the five-number summary drawn for one group. Whiskers reach the
// most extreme values within 1.5 IQR of the quartiles.
type Box struct {
	Q1, Median, Q3 float64
	Low, High      float64
	Outliers       []float64
}

// BoxStats computes the box for values. ok is false for an empty group.
func BoxStats(values []float64) (b Box, ok bool) {
	if len(values) == 0 {
		return Box{}, false
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	b.Q1 = analysis.Quantile(s, 0.25)
	b.Median = analysis.Quantile(s, 0.5)
	b.Q3 = analysis.Quantile(s, 0.75)
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.Low, b.High = b.Q3, b.Q1
	for _, v := range s {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.Low {
			b.Low = v
		}
		if v > b.High {
			b.High = v
		}
	}
	return b, true
}

const boxHalfWidth = 0.3

func boxplotChart(wins []string, values []float64, opt Options) (chart.Chart, error) {
	groups, _ := GroupByWins(wins, values)
	if len(groups[0].Values)+len(groups[1].Values) == 0 {
		return chart.Chart{}, fmt.Errorf("boxplot: no row has Wins 0 or 1")
	}
	var all []float64
	for _, g := range groups {
		all = append(all, g.Values...)
	}
	ymin, ymax := paddedRange(all)
	colors := [2]drawing.Color{mustColor(opt.ColorLost), mustColor(opt.ColorWon)}

	var boxes [2]Box
	var present [2]bool
	var ox, oy []float64
	for i, g := range groups {
		boxes[i], present[i] = BoxStats(g.Values)
		for _, v := range boxes[i].Outliers {
			ox = append(ox, float64(i))
			oy = append(oy, v)
		}
	}

	series := []chart.Series{
		// Invisible anchor so the chart always has a series to lay out.
		chart.ContinuousSeries{
			Style:   chart.Style{StrokeWidth: chart.Disabled},
			XValues: []float64{-0.5, 1.5},
			YValues: []float64{ymin, ymin},
		},
	}
	if len(ox) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: "outliers",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    drawing.Color{R: 60, G: 60, B: 60, A: 255},
			},
			XValues: ox,
			YValues: oy,
		})
	}

	f := frame{xmin: -0.5, xmax: 1.5, ymin: ymin, ymax: ymax}
	return chart.Chart{
		Title:      "Vencedores GOTY são mais populares?",
		TitleStyle: panelTitleStyle(),
		Background: panelBackground(),
		XAxis: chart.XAxis{
			Name:  "Venceu GOTY? (0=Não, 1=Sim)",
			Range: &chart.ContinuousRange{Min: -0.5, Max: 1.5},
			Ticks: []chart.Tick{{Value: 0, Label: groups[0].Label}, {Value: 1, Label: groups[1].Label}},
		},
		YAxis: chart.YAxis{
			Name:           "Popularidade (Logaritmo Votes)",
			Range:          &chart.ContinuousRange{Min: ymin, Max: ymax},
			ValueFormatter: oneDecimalFormatter,
		},
		Series: series,
		Elements: []chart.Renderable{
			func(r chart.Renderer, box chart.Box, _ chart.Style) {
				f.box = box
				for i := range boxes {
					if !present[i] {
						continue
					}
					drawBox(r, f, float64(i), boxes[i], colors[i])
				}
			},
		},
	}, nil
}

func drawBox(r chart.Renderer, f frame, x float64, b Box, fill drawing.Color) {
	left, right := f.px(x-boxHalfWidth), f.px(x+boxHalfWidth)
	capL, capR := f.px(x-boxHalfWidth/2), f.px(x+boxHalfWidth/2)
	mid := f.px(x)

	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(1)
	// whiskers first so the box covers their inner ends
	line(r, mid, f.py(b.Low), mid, f.py(b.Q1))
	line(r, mid, f.py(b.Q3), mid, f.py(b.High))
	line(r, capL, f.py(b.Low), capR, f.py(b.Low))
	line(r, capL, f.py(b.High), capR, f.py(b.High))

	r.SetFillColor(fill)
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(1)
	fillRect(r, left, f.py(b.Q3), right, f.py(b.Q1))

	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(2)
	line(r, left, f.py(b.Median), right, f.py(b.Median))
}

