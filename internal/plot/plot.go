// Package plot renders the three explanatory panels of the GOTY analysis
// (vote histogram, popularity regression, winners boxplot) side by side
// into a single PNG.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Fit is the regression line drawn on the scatter panel.
type Fit interface {
	Coef() float64
	Predict(x float64) float64
	MeanCI(x, level float64) (lo, hi float64)
}

// Input carries the cleaned columns and the values computed upstream.
type Input struct {
	Votes     []float64
	LogVotes  []float64
	UserScore []float64
	Wins      []string
	Skewness  float64
	Fit       Fit
}

// Options controls figure geometry and colours.
type Options struct {
	Width  int
	Height int
	// Bins is the number of histogram bins over the full vote range.
	Bins int
	// ViewQuantile clips the histogram x axis at this quantile of Votes.
	ViewQuantile float64
	HistColor    string
	ColorLost    string
	ColorWon     string
}

// DefaultOptions mirror an 18x6 inch figure at 100 dpi.
func DefaultOptions() Options {
	return Options{
		Width:        1800,
		Height:       600,
		Bins:         40,
		ViewQuantile: 0.95,
		HistColor:    "#800080",
		ColorLost:    "#2F9500",
		ColorWon:     "#ffcd03",
	}
}

// Validate checks option ranges and colours.
func (o Options) Validate() error {
	if o.Width < 300 || o.Height < 200 {
		return fmt.Errorf("figure size %dx%d too small", o.Width, o.Height)
	}
	if o.Bins < 1 {
		return fmt.Errorf("bins must be positive, got %d", o.Bins)
	}
	if o.ViewQuantile <= 0 || o.ViewQuantile > 1 {
		return fmt.Errorf("view quantile must be in (0, 1], got %g", o.ViewQuantile)
	}
	for _, c := range []string{o.HistColor, o.ColorLost, o.ColorWon} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Render draws the three panels and returns the combined PNG.
func Render(in Input, opt Options) ([]byte, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(in.Votes) == 0 {
		return nil, errors.New("plot: no data")
	}
	if len(in.LogVotes) != len(in.UserScore) || len(in.LogVotes) != len(in.Wins) {
		return nil, errors.New("plot: column lengths differ")
	}
	if in.Fit == nil {
		return nil, errors.New("plot: regression fit is required")
	}
	panelW := opt.Width / 3

	hist, err := histogramChart(in.Votes, in.Skewness, opt)
	if err != nil {
		return nil, err
	}
	scatter, err := scatterChart(in.LogVotes, in.UserScore, in.Fit)
	if err != nil {
		return nil, err
	}
	box, err := boxplotChart(in.Wins, in.LogVotes, opt)
	if err != nil {
		return nil, err
	}

	panels := make([]image.Image, 0, 3)
	for i, ch := range []chart.Chart{hist, scatter, box} {
		ch.Width = panelW
		ch.Height = opt.Height
		img, err := renderPanel(ch)
		if err != nil {
			return nil, fmt.Errorf("render panel %d: %w", i+1, err)
		}
		panels = append(panels, img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, compose(panels, panelW*3, opt.Height)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPanel(ch chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// compose lays the panels out left to right on a white canvas.
func compose(panels []image.Image, w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	x := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(canvas, image.Rect(x, 0, x+b.Dx(), b.Dy()), p, b.Min, draw.Over)
		x += b.Dx()
	}
	return canvas
}

// ParseColor parses "#rrggbb" (the '#' is optional).
func ParseColor(s string) (drawing.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func mustColor(s string) drawing.Color {
	c, err := ParseColor(s)
	if err != nil {
		return drawing.ColorBlack
	}
	return c
}

// frame maps data coordinates to pixels the same way go-chart places series
// inside the canvas box, so custom elements line up with the axes.
type frame struct {
	box                    chart.Box
	xmin, xmax, ymin, ymax float64
}

func (f frame) px(x float64) int {
	return f.box.Left + int((x-f.xmin)/(f.xmax-f.xmin)*float64(f.box.Width()))
}

func (f frame) py(y float64) int {
	return f.box.Bottom - int((y-f.ymin)/(f.ymax-f.ymin)*float64(f.box.Height()))
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.LineTo(x0, y0)
	r.Close()
	r.FillStroke()
}

func line(r chart.Renderer, x0, y0, x1, y1 int) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

func integerFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return ""
}

func oneDecimalFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return ""
}

func panelTitleStyle() chart.Style {
	return chart.Style{FontSize: 11}
}

func panelBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}}
}
