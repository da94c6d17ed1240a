package dataset

import (
	"fmt"
	"math"
)

// AddLogVotes returns a table with logaritmo_votes = ln(1 + Votes).
// Votes must already be cleaned.
func AddLogVotes(t *Table) (*Table, error) {
	votes, err := t.Floats(ColVotes)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(votes))
	for i, v := range votes {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("row %d: %s is missing; run Clean first", i+1, ColVotes)
		}
		if v < 0 {
			return nil, fmt.Errorf("row %d: %w: %g", i+1, ErrNegativeVotes, v)
		}
		out[i] = math.Log1p(v)
	}
	return t.withColumn(ColLogVotes, out)
}
