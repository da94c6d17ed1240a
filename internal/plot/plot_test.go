package plot

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/wcharczuk/go-chart/v2"
)

type fakeFit struct{ a, b float64 }

func (l fakeFit) Coef() float64             { return l.b }
func (l fakeFit) Predict(x float64) float64 { return l.a + l.b*x }
func (l fakeFit) MeanCI(x, _ float64) (float64, float64) {
	y := l.Predict(x)
	return y - 0.3, y + 0.3
}

func sampleInput(n int) Input {
	in := Input{Skewness: 2.5, Fit: fakeFit{a: 9, b: -0.2}}
	for i := 0; i < n; i++ {
		votes := float64((i*i*37)%5000 + i)
		lv := math.Log1p(votes)
		in.Votes = append(in.Votes, votes)
		in.LogVotes = append(in.LogVotes, lv)
		in.UserScore = append(in.UserScore, 9-0.2*lv+float64(i%5)*0.1)
		if i%7 == 0 {
			in.Wins = append(in.Wins, "1")
		} else {
			in.Wins = append(in.Wins, "0")
		}
	}
	return in
}

func TestHistogramCountsEveryValue(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := Histogram(xs, 5)
	if len(b.Edges) != 6 || len(b.Counts) != 5 {
		t.Fatalf("edges=%d counts=%d", len(b.Edges), len(b.Counts))
	}
	total := 0
	for _, c := range b.Counts {
		total += c
	}
	if total != len(xs) {
		t.Fatalf("counts sum to %d, want %d", total, len(xs))
	}
	// the maximum lands in the last, right-closed bin
	if b.Counts[4] != 3 {
		t.Fatalf("last bin = %d, want 3 (8, 9, 10)", b.Counts[4])
	}
	if b.Edges[0] != 0 || b.Edges[5] != 10 {
		t.Fatalf("edges span %v..%v", b.Edges[0], b.Edges[5])
	}
}

func TestHistogramConstantInput(t *testing.T) {
	b := Histogram([]float64{4, 4, 4}, 3)
	if b.Edges[0] != 3.5 || b.Edges[3] != 4.5 {
		t.Fatalf("edges = %v", b.Edges)
	}
	if b.Counts[1] != 3 {
		t.Fatalf("counts = %v", b.Counts)
	}
}

func TestKDEIntegratesToOne(t *testing.T) {
	xs := []float64{1, 2, 2.5, 3, 4, 4.2, 5, 7}
	grid := make([]float64, 2001)
	for i := range grid {
		grid[i] = -10 + float64(i)*0.01
	}
	d := KDE(xs, grid)
	var area float64
	for _, v := range d {
		area += v * 0.01
	}
	if math.Abs(area-1) > 1e-3 {
		t.Fatalf("kde area = %v, want 1", area)
	}
	if KDE([]float64{3, 3, 3}, grid) != nil {
		t.Fatalf("constant input must have no density")
	}
}

func TestGroupByWins(t *testing.T) {
	groups, skipped := GroupByWins([]string{"0", "1", "1.0", "x", " 0 "}, []float64{1, 2, 3, 4, 5})
	if groups[0].Label != "Não Venceu" || groups[1].Label != "Venceu" {
		t.Fatalf("labels = %q, %q", groups[0].Label, groups[1].Label)
	}
	if len(groups[0].Values) != 2 || len(groups[1].Values) != 2 || skipped != 1 {
		t.Fatalf("groups = %+v skipped=%d", groups, skipped)
	}
}

func TestBoxStats(t *testing.T) {
	b, ok := BoxStats([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	if !ok {
		t.Fatal("expected box")
	}
	if b.Q1 != 3 || b.Median != 5 || b.Q3 != 7 {
		t.Fatalf("quartiles = %v %v %v", b.Q1, b.Median, b.Q3)
	}
	if b.Low != 1 || b.High != 8 {
		t.Fatalf("whiskers = %v..%v", b.Low, b.High)
	}
	if len(b.Outliers) != 1 || b.Outliers[0] != 100 {
		t.Fatalf("outliers = %v", b.Outliers)
	}
	if _, ok := BoxStats(nil); ok {
		t.Fatal("empty group must not produce a box")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#2F9500")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0x2f || c.G != 0x95 || c.B != 0 || c.A != 255 {
		t.Fatalf("color = %+v", c)
	}
	if _, err := ParseColor("ffcd03"); err != nil {
		t.Fatalf("bare hex: %v", err)
	}
	for _, bad := range []string{"", "#fff", "#zzzzzz", "#1234567"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestRenderProducesThreePanelPNG(t *testing.T) {
	opt := DefaultOptions()
	data, err := Render(sampleInput(120), opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1800 || b.Dy() != 600 {
		t.Fatalf("size = %dx%d, want 1800x600", b.Dx(), b.Dy())
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	opt := DefaultOptions()
	if _, err := Render(Input{}, opt); err == nil {
		t.Fatal("empty input should fail")
	}
	in := sampleInput(10)
	in.Fit = nil
	if _, err := Render(in, opt); err == nil {
		t.Fatal("missing fit should fail")
	}
	opt.Bins = 0
	if _, err := Render(sampleInput(10), opt); err == nil {
		t.Fatal("zero bins should fail")
	}
}

func TestHistogramViewClipsAtQuantileNotData(t *testing.T) {
	votes := make([]float64, 100)
	for i := range votes {
		votes[i] = float64(i * i)
	}
	opt := DefaultOptions()
	ch, err := histogramChart(votes, 1.2, opt)
	if err != nil {
		t.Fatalf("histogramChart: %v", err)
	}
	xr, ok := ch.XAxis.Range.(*chart.ContinuousRange)
	if !ok {
		t.Fatalf("x range type %T", ch.XAxis.Range)
	}
	if want := analysis.QuantileOf(votes, 0.95); xr.Min != 0 || xr.Max != want {
		t.Fatalf("view = [%v, %v], want [0, %v]", xr.Min, xr.Max, want)
	}
	if xr.Max >= 9801 {
		t.Fatalf("view not clipped: max %v", xr.Max)
	}

	b := Histogram(votes, opt.Bins)
	if len(b.Counts) != 40 {
		t.Fatalf("bins = %d, want 40", len(b.Counts))
	}
	total := 0
	for _, c := range b.Counts {
		total += c
	}
	if total != len(votes) {
		t.Fatalf("counts sum to %d, want %d", total, len(votes))
	}
	if last := b.Edges[len(b.Edges)-1]; last != 9801 {
		t.Fatalf("last edge = %v, want the data max 9801", last)
	}
	if !strings.Contains(ch.Title, "(Skewness: 1.20)") {
		t.Fatalf("title = %q", ch.Title)
	}
}

func TestScatterLineComesFromFit(t *testing.T) {
	fit := fakeFit{a: 7, b: -0.75}
	x := []float64{0.9, 2, 3.5, 5, 8.1}
	y := []float64{6.1, 5.9, 4.2, 3.4, 1.1}
	ch, err := scatterChart(x, y, fit)
	if err != nil {
		t.Fatalf("scatterChart: %v", err)
	}
	if !strings.Contains(ch.Title, "(Coef: -0.75)") {
		t.Fatalf("title = %q", ch.Title)
	}
	var found bool
	for _, s := range ch.Series {
		cs, ok := s.(chart.ContinuousSeries)
		if !ok || cs.Name != "regressão" {
			continue
		}
		found = true
		if len(cs.XValues) == 0 || len(cs.XValues) != len(cs.YValues) {
			t.Fatalf("line has %d x and %d y values", len(cs.XValues), len(cs.YValues))
		}
		for i, xv := range cs.XValues {
			if cs.YValues[i] != fit.Predict(xv) {
				t.Fatalf("line y at %v = %v, want %v", xv, cs.YValues[i], fit.Predict(xv))
			}
		}
	}
	if !found {
		t.Fatal("no regression series")
	}
}
