package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSExactNegativeLine(t *testing.T) {
	x := make([]float64, 40)
	y := make([]float64, 40)
	for i := range x {
		x[i] = math.Log1p(float64(10 + i*250))
		y[i] = 5 - 0.5*x[i]
	}
	res, err := FitOLS("logaritmo_votes", "User-Score", x, y)
	require.NoError(t, err)

	assert.InDelta(t, -0.5, res.Coef(), 1e-9)
	assert.InDelta(t, 5.0, res.Intercept.Value, 1e-8)
	assert.Less(t, res.PValue(), 0.05)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.Equal(t, Confirmed, EvaluateHypothesis(res.Coef(), res.PValue(), DefaultAlpha))
}

func TestFitOLSUncorrelated(t *testing.T) {
	// y is symmetric around the centre of x, so the covariance is exactly zero.
	x := make([]float64, 21)
	y := make([]float64, 21)
	for i := range x {
		x[i] = float64(i + 1)
		d := x[i] - 11
		y[i] = 6 + 0.01*d*d
	}
	res, err := FitOLS("logaritmo_votes", "User-Score", x, y)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.Coef(), 1e-9)
	assert.GreaterOrEqual(t, res.PValue(), 0.05)
	assert.Equal(t, Rejected, EvaluateHypothesis(res.Coef(), res.PValue(), DefaultAlpha))
}

func TestFitOLSKnownValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 5, 4, 5}
	res, err := FitOLS("x", "y", x, y)
	require.NoError(t, err)

	assert.Equal(t, 5, res.N)
	assert.Equal(t, 3, res.DFResid)
	assert.InDelta(t, 0.6, res.Slope.Value, 1e-12)
	assert.InDelta(t, 2.2, res.Intercept.Value, 1e-12)
	assert.InDelta(t, math.Sqrt(0.08), res.Slope.StdErr, 1e-12)
	assert.InDelta(t, math.Sqrt(0.88), res.Intercept.StdErr, 1e-12)
	assert.InDelta(t, 0.6/math.Sqrt(0.08), res.Slope.T, 1e-9)
	assert.Greater(t, res.Slope.P, 0.1)
	assert.Less(t, res.Slope.P, 0.2)
	assert.InDelta(t, 0.6, res.RSquared, 1e-12)
	assert.InDelta(t, 0.4667, res.AdjRSquared, 1e-4)
	assert.InDelta(t, 4.5, res.FStat, 1e-9)
	// With one regressor F = t^2, so both tests agree.
	assert.InDelta(t, res.Slope.P, res.FPValue, 1e-9)
	assert.InDelta(t, 4.84/2.4, res.DurbinWatson, 1e-12)
	assert.InDelta(t, -5.2598, res.LogLikelihood, 1e-4)
	assert.InDelta(t, res.AIC, -2*res.LogLikelihood+4, 1e-12)

	lo, hi := res.MeanCI(3, 0.95)
	assert.InDelta(t, 4-3.182446*0.4, lo, 1e-4)
	assert.InDelta(t, 4+3.182446*0.4, hi, 1e-4)
	assert.InDelta(t, 2.2+0.6*10, res.Predict(10), 1e-12)
	assert.Less(t, res.Slope.Lower, res.Slope.Value)
	assert.Greater(t, res.Slope.Upper, res.Slope.Value)
}

func TestFitOLSErrors(t *testing.T) {
	_, err := FitOLS("x", "y", []float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrTooFewObservations)

	_, err = FitOLS("x", "y", []float64{3, 3, 3, 3}, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = FitOLS("x", "y", []float64{1, 2, 3}, []float64{1, 2})
	assert.Error(t, err)

	_, err = FitOLS("x", "y", []float64{1, math.NaN(), 3}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestEvaluateHypothesis(t *testing.T) {
	cases := []struct {
		coef, p float64
		want    Verdict
	}{
		{-0.2, 0.001, Confirmed},
		{0.2, 0.001, Inverted},
		{-0.2, 0.2, Rejected},
		{0.2, 0.05, Rejected},
		{0, 0.001, Rejected},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, EvaluateHypothesis(c.coef, c.p, DefaultAlpha), "coef=%v p=%v", c.coef, c.p)
	}
	assert.Equal(t, "hipótese comprovada", Confirmed.Lines()[0])
	assert.Equal(t, "hipótese invertida", Inverted.Lines()[0])
	assert.Equal(t, "hipótese negada", Rejected.Lines()[0])
	assert.Len(t, Confirmed.Lines(), 3)
}

func TestSummaryLayout(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{8.1, 7.9, 7.2, 7.4, 6.8, 6.1}
	res, err := FitOLS("logaritmo_votes", "User-Score", x, y)
	require.NoError(t, err)

	out := res.Summary()
	for _, want := range []string{
		"OLS Regression Results",
		"Dep. Variable:",
		"User-Score",
		"No. Observations:",
		"P>|t|",
		"const",
		"logaritmo_votes",
		"Durbin-Watson:",
		"Cond. No.",
	} {
		assert.Contains(t, out, want)
	}
	for i, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), summaryWidth, "line %d too wide: %q", i, line)
	}
}
