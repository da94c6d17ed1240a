package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTooFewObservations is returned when there are not enough rows to estimate residual variance.
	ErrTooFewObservations = errors.New("too few observations for regression")
	// ErrDegenerate is returned when the predictor has no variance.
	ErrDegenerate = errors.New("degenerate regression input")
)

// Coefficient is one estimated parameter with its t-test.
type Coefficient struct {
	Name   string
	Value  float64
	StdErr float64
	T      float64
	P      float64 // two-sided, Student's t with DFResid degrees of freedom
	Lower  float64 // 95% confidence interval
	Upper  float64
}

// OLSResult is a fitted simple linear model y = Intercept + Slope*x.
type OLSResult struct {
	XName, YName string
	N            int
	DFModel      int
	DFResid      int

	Intercept Coefficient
	Slope     Coefficient

	RSquared      float64
	AdjRSquared   float64
	FStat         float64
	FPValue       float64
	LogLikelihood float64
	AIC           float64
	BIC           float64

	// Residual diagnostics
	DurbinWatson  float64
	JarqueBera    float64
	JBPValue      float64
	ResidSkew     float64
	ResidKurtosis float64
	CondNo        float64

	Fitted    []float64
	Residuals []float64

	sigma2 float64
	xMean  float64
	sxx    float64
}

// FitOLS regresses y on a constant and x by least squares.
func FitOLS(xName, yName string, x, y []float64) (*OLSResult, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("ols: x has %d values, y has %d", n, len(y))
	}
	if n < 3 {
		return nil, fmt.Errorf("ols: %w: n=%d", ErrTooFewObservations, n)
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("ols: row %d: non-finite value", i+1)
		}
	}
	xMean := stat.Mean(x, nil)
	var sxx float64
	for _, v := range x {
		d := v - xMean
		sxx += d * d
	}
	if sxx == 0 {
		return nil, fmt.Errorf("ols: %w: %s is constant", ErrDegenerate, xName)
	}

	design := mat.NewDense(n, 2, nil)
	for i, v := range x {
		design.Set(i, 0, 1)
		design.Set(i, 1, v)
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(design, yv); err != nil {
		return nil, fmt.Errorf("ols: solve: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	res := &OLSResult{
		XName:     xName,
		YName:     yName,
		N:         n,
		DFModel:   1,
		DFResid:   n - 2,
		Fitted:    make([]float64, n),
		Residuals: make([]float64, n),
		xMean:     xMean,
		sxx:       sxx,
	}
	var ssr float64
	for i := 0; i < n; i++ {
		f := fitted.AtVec(i)
		e := y[i] - f
		res.Fitted[i] = f
		res.Residuals[i] = e
		ssr += e * e
	}
	yMean := stat.Mean(y, nil)
	var tss float64
	for _, v := range y {
		d := v - yMean
		tss += d * d
	}
	df := float64(res.DFResid)
	res.sigma2 = ssr / df

	var xtx, xtxInv mat.Dense
	xtx.Mul(design.T(), design)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("ols: %w: %v", ErrDegenerate, err)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	tcrit := tdist.Quantile(0.975)
	coef := func(name string, j int) Coefficient {
		c := Coefficient{Name: name, Value: beta.AtVec(j)}
		c.StdErr = math.Sqrt(res.sigma2 * xtxInv.At(j, j))
		c.T, c.P = tTest(c.Value, c.StdErr, tdist)
		c.Lower = c.Value - tcrit*c.StdErr
		c.Upper = c.Value + tcrit*c.StdErr
		return c
	}
	res.Intercept = coef("const", 0)
	res.Slope = coef(xName, 1)

	res.RSquared = math.NaN()
	if tss > 0 {
		res.RSquared = 1 - ssr/tss
	}
	res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/df
	ess := tss - ssr
	res.FStat = (ess / float64(res.DFModel)) / res.sigma2
	res.FPValue = survival(distuv.F{D1: float64(res.DFModel), D2: df}.Survival, res.FStat)

	fn := float64(n)
	res.LogLikelihood = -fn/2*math.Log(2*math.Pi) - fn/2*math.Log(ssr/fn) - fn/2
	k := float64(res.DFModel + 1)
	res.AIC = -2*res.LogLikelihood + 2*k
	res.BIC = -2*res.LogLikelihood + k*math.Log(fn)

	var dw float64
	for i := 1; i < n; i++ {
		d := res.Residuals[i] - res.Residuals[i-1]
		dw += d * d
	}
	res.DurbinWatson = dw / ssr
	res.ResidSkew = Skewness(res.Residuals)
	res.ResidKurtosis = Kurtosis(res.Residuals)
	ek := res.ResidKurtosis - 3
	res.JarqueBera = fn / 6 * (res.ResidSkew*res.ResidSkew + ek*ek/4)
	res.JBPValue = survival(distuv.ChiSquared{K: 2}.Survival, res.JarqueBera)
	res.CondNo = mat.Cond(design, 2)
	return res, nil
}

// tTest returns the t statistic and two-sided p-value for H0: value == 0.
// A zero standard error means a perfect fit: any non-zero value is infinitely significant.
func tTest(value, se float64, dist distuv.StudentsT) (t, p float64) {
	if se == 0 {
		if value == 0 {
			return math.NaN(), 1
		}
		return math.Copysign(math.Inf(1), value), 0
	}
	t = value / se
	return t, 2 * dist.CDF(-math.Abs(t))
}

// survival guards the distribution tails against the NaN/Inf statistics of a perfect fit.
func survival(sf func(float64) float64, x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case math.IsInf(x, 1):
		return 0
	case x <= 0:
		return 1
	}
	return sf(x)
}

// Coef is the slope estimate.
func (r *OLSResult) Coef() float64 { return r.Slope.Value }

// PValue is the two-sided p-value of the slope.
func (r *OLSResult) PValue() float64 { return r.Slope.P }

// Predict evaluates the fitted line at x.
func (r *OLSResult) Predict(x float64) float64 {
	return r.Intercept.Value + r.Slope.Value*x
}

// MeanCI returns the confidence interval of the mean prediction at x.
func (r *OLSResult) MeanCI(x, level float64) (lo, hi float64) {
	tcrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(r.DFResid)}.Quantile(0.5 + level/2)
	d := x - r.xMean
	se := math.Sqrt(r.sigma2 * (1/float64(r.N) + d*d/r.sxx))
	yhat := r.Predict(x)
	return yhat - tcrit*se, yhat + tcrit*se
}
