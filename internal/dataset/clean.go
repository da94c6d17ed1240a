package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanStats describes what Clean removed.
type CleanStats struct {
	RowsIn  int
	RowsOut int
	// Unparsable counts, per critical column, the cells that were not numbers.
	Unparsable map[string]int
}

// Dropped is the number of rows removed.
func (s CleanStats) Dropped() int { return s.RowsIn - s.RowsOut }

// Clean coerces the critical columns to float64 and drops every row where
// any of them is missing or not a number.
func Clean(t *Table) (*Table, CleanStats, error) {
	st := CleanStats{RowsIn: t.Len(), Unparsable: map[string]int{}}
	n := t.Len()
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	out := t
	for _, col := range CriticalColumns {
		raw, err := t.Strings(col)
		if err != nil {
			return nil, st, err
		}
		vals := make([]float64, n)
		for i, s := range raw {
			x, ok := ToNumeric(s)
			if !ok {
				st.Unparsable[col]++
				keep[i] = false
				x = math.NaN()
			}
			vals[i] = x
		}
		if out, err = out.withColumn(col, vals); err != nil {
			return nil, st, err
		}
	}

	rows := make([]int, 0, n)
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, st, fmt.Errorf("clean %s: %w", t.Name, ErrEmptyTable)
	}
	if len(rows) < n {
		var err error
		if out, err = out.subset(rows); err != nil {
			return nil, st, err
		}
	}
	st.RowsOut = out.Len()
	return out, st, nil
}

// ToNumeric parses a CSV cell. Blank cells, placeholders such as "tbd" and
// NaN are reported as missing.
func ToNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.ContainsRune(raw, '_') {
		return 0, false
	}
	// ParseFloat also reads Go literal syntax; CSV numbers are decimal only.
	if u := strings.TrimLeft(raw, "+-"); len(u) > 1 && u[0] == '0' && (u[1] == 'x' || u[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
