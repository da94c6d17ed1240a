package analysis

import (
	"fmt"
	"math"
	"strings"
)

const summaryWidth = 78

// Summary renders the fit in the familiar "OLS Regression Results" layout.
func (r *OLSResult) Summary() string {
	var b strings.Builder
	heavy := strings.Repeat("=", summaryWidth)
	light := strings.Repeat("-", summaryWidth)

	title := "OLS Regression Results"
	pad := (summaryWidth - len(title)) / 2
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(heavy + "\n")
	pair(&b, "Dep. Variable:", r.YName, "R-squared:", fmt.Sprintf("%.3f", r.RSquared))
	pair(&b, "Model:", "OLS", "Adj. R-squared:", fmt.Sprintf("%.3f", r.AdjRSquared))
	pair(&b, "Method:", "Least Squares", "F-statistic:", fmt.Sprintf("%.4g", r.FStat))
	pair(&b, "No. Observations:", fmt.Sprintf("%d", r.N), "Prob (F-statistic):", fmt.Sprintf("%.3g", r.FPValue))
	pair(&b, "Df Residuals:", fmt.Sprintf("%d", r.DFResid), "Log-Likelihood:", fmt.Sprintf("%.2f", r.LogLikelihood))
	pair(&b, "Df Model:", fmt.Sprintf("%d", r.DFModel), "AIC:", fmt.Sprintf("%.1f", r.AIC))
	pair(&b, "Covariance Type:", "nonrobust", "BIC:", fmt.Sprintf("%.1f", r.BIC))
	b.WriteString(heavy + "\n")

	fmt.Fprintf(&b, "%-16s%10s%10s%10s%10s%11s%11s\n", "", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]")
	b.WriteString(light + "\n")
	for _, c := range []Coefficient{r.Intercept, r.Slope} {
		fmt.Fprintf(&b, "%-16s%10.4f%10.3f%10.3f%10.3f%11.3f%11.3f\n",
			trunc(c.Name, 16), c.Value, c.StdErr, c.T, c.P, c.Lower, c.Upper)
	}
	b.WriteString(heavy + "\n")
	pair(&b, "Durbin-Watson:", fmt.Sprintf("%.3f", r.DurbinWatson), "Jarque-Bera (JB):", fmt.Sprintf("%.3f", r.JarqueBera))
	pair(&b, "Prob(JB):", fmt.Sprintf("%.3g", r.JBPValue), "Skew:", fmt.Sprintf("%.3f", r.ResidSkew))
	pair(&b, "Kurtosis:", fmt.Sprintf("%.3f", r.ResidKurtosis), "Cond. No.", condString(r.CondNo))
	b.WriteString(heavy + "\n")
	return b.String()
}

func pair(b *strings.Builder, lk, lv, rk, rv string) {
	fmt.Fprintf(b, "%-20s%18s   %-20s%17s\n", lk, trunc(lv, 18), rk, rv)
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func condString(c float64) string {
	if math.IsInf(c, 0) || c >= 1e5 {
		return fmt.Sprintf("%.2e", c)
	}
	return fmt.Sprintf("%.1f", c)
}
