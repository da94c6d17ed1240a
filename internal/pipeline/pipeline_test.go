package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/KaramelBytes/gotystats/internal/dataset"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// writeNominees writes n games whose user score falls with popularity,
// plus one row with a placeholder vote count.
func writeNominees(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Year,Game,Meta-Score,Reviews,User-Score,Votes,Wins\n")
	for i := 1; i <= n; i++ {
		votes := 10 * math.Pow(2, float64(i%12)+1)
		noise := 0.05
		if i%2 == 0 {
			noise = -0.05
		}
		score := 9.5 - 0.3*math.Log1p(votes) + noise
		win := 0
		if i%4 == 0 {
			win = 1
		}
		fmt.Fprintf(&b, "%d,Game %d,%d,%d,%.2f,%.0f,%d\n", 2014+i%11, i, 80+i%15, 40+3*i, score, votes, win)
	}
	b.WriteString("2020,Pending,90,50,8.1,tbd,0\n")
	path := filepath.Join(t.TempDir(), "goty.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunConfirmsNegativeCorrelation(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opt := DefaultOptions()
	opt.DataPath = writeNominees(t, 40)
	var out bytes.Buffer
	res, err := Run(opt, &out, logger)
	require.NoError(t, err)

	assert.Equal(t, 41, res.Raw.Len())
	assert.Equal(t, 40, res.Clean.Len())
	assert.Equal(t, 1, res.Stats.Dropped())
	assert.True(t, res.Clean.Has(dataset.ColLogVotes))
	assert.InDelta(t, -0.3, res.Fit.Coef(), 0.02)
	assert.Less(t, res.Fit.PValue(), 0.05)
	assert.Equal(t, analysis.Confirmed, res.Verdict)
	require.NotEmpty(t, res.Figure)
	assert.True(t, bytes.HasPrefix(res.Figure, []byte("\x89PNG")))

	text := out.String()
	order := []string{
		"skewness (assimetria) da coluna votes:",
		"transformação log aplicada na coluna 'votes' para normalizar a escala.",
		strings.Repeat("-", 50),
		"### resumo estatístico completo",
		"OLS Regression Results",
		"--- resultado da hipótese ---",
		"hipótese comprovada",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(text, s)
		require.GreaterOrEqual(t, i, 0, "missing %q in output:\n%s", s, text)
		require.Greater(t, i, last, "%q out of order", s)
		last = i
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["stage"] == "clean" {
			warned = true
			assert.Equal(t, 1, e.Data["unparsable_Votes"])
		}
	}
	assert.True(t, warned, "expected a warning for the dropped row")
}

func TestRunSkipPlot(t *testing.T) {
	logger, _ := test.NewNullLogger()
	opt := DefaultOptions()
	opt.DataPath = writeNominees(t, 12)
	opt.SkipPlot = true
	res, err := Run(opt, &bytes.Buffer{}, logger)
	require.NoError(t, err)
	assert.Nil(t, res.Figure)
}

func TestRunMissingFilePrintsNothing(t *testing.T) {
	logger, _ := test.NewNullLogger()
	opt := DefaultOptions()
	opt.DataPath = filepath.Join(t.TempDir(), "missing.csv")
	var out bytes.Buffer
	_, err := Run(opt, &out, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, out.String())
}

func TestRunRejectsBadAlpha(t *testing.T) {
	logger, _ := test.NewNullLogger()
	opt := DefaultOptions()
	opt.DataPath = writeNominees(t, 12)
	opt.Alpha = 0
	_, err := Run(opt, &bytes.Buffer{}, logger)
	require.Error(t, err)
}
