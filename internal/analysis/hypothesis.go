package analysis

// DefaultAlpha is the significance level of the popularity hypothesis.
const DefaultAlpha = 0.05

// Verdict is the outcome of testing "more votes, lower user score".
type Verdict string

const (
	Confirmed Verdict = "confirmed"
	Inverted  Verdict = "inverted"
	Rejected  Verdict = "rejected"
)

// EvaluateHypothesis classifies a slope and its p-value. The sign checks are
// strict, so a zero slope is rejected even when p < alpha.
func EvaluateHypothesis(coef, p, alpha float64) Verdict {
	switch {
	case p < alpha && coef < 0:
		return Confirmed
	case p < alpha && coef > 0:
		return Inverted
	default:
		return Rejected
	}
}

// Lines is the console message for the verdict.
func (v Verdict) Lines() []string {
	switch v {
	case Confirmed:
		return []string{
			"hipótese comprovada",
			"existe uma correlação negativa estatisticamente relevante",
			"quanto maior a quantidade de votos, menor tende a ser o user-score",
		}
	case Inverted:
		return []string{
			"hipótese invertida",
			"jogos mais populares tendem a ter notas maiores.",
		}
	default:
		return []string{
			"hipótese negada",
			"não há evidência estatística suficiente.",
		}
	}
}
