package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names used by the analysis.
const (
	ColUserScore = "User-Score"
	ColVotes     = "Votes"
	ColMetaScore = "Meta-Score"
	ColReviews   = "Reviews"
	ColWins      = "Wins"
	ColLogVotes  = "logaritmo_votes"
)

// DefaultPath is the dataset location relative to the working directory.
const DefaultPath = "./data/Games Awards Goty Nominees and Winners 2014-2024.csv"

// CriticalColumns must be numeric and non-missing after cleaning.
var CriticalColumns = []string{ColUserScore, ColVotes, ColMetaScore, ColReviews}

// RequiredColumns must be present in the CSV header.
var RequiredColumns = []string{ColUserScore, ColVotes, ColMetaScore, ColReviews, ColWins}

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyTable is returned when no rows are left to analyze.
	ErrEmptyTable = errors.New("no rows left after cleaning")
	// ErrNegativeVotes is returned when log1p is asked to transform a negative vote count.
	ErrNegativeVotes = errors.New("negative vote count")
)

// ParseError reports a malformed CSV file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse csv %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is the in-memory record table. Stages never mutate a Table they
// receive; they return a new one.
type Table struct {
	Name string
	df   dataframe.DataFrame
}

// Load reads the CSV at path. A missing file yields an error matching fs.ErrNotExist.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	t, err := read(f, path)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Read parses CSV data from r. name is used in error messages only.
func Read(r io.Reader, name string) (*Table, error) {
	t, err := read(r, name)
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// utf8BOM is written by spreadsheet exports in front of the header.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func read(r io.Reader, name string) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	// Everything stays a string until Clean decides what is numeric.
	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, &ParseError{Path: name, Err: df.Err}
	}
	t := &Table{df: df}
	for _, col := range RequiredColumns {
		if !t.Has(col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Columns returns the column names in header order.
func (t *Table) Columns() []string { return t.df.Names() }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(col string) bool {
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Strings returns the raw cell values of col.
func (t *Table) Strings(col string) ([]string, error) {
	if !t.Has(col) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	return t.df.Col(col).Records(), nil
}

// Floats returns col as float64 values. Cells that are not numbers come back as NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	if !t.Has(col) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	return t.df.Col(col).Float(), nil
}

func (t *Table) withColumn(col string, vals []float64) (*Table, error) {
	df := t.df.Mutate(series.New(vals, series.Float, col))
	if df.Err != nil {
		return nil, fmt.Errorf("set column %s: %w", col, df.Err)
	}
	return &Table{Name: t.Name, df: df}, nil
}

func (t *Table) subset(rows []int) (*Table, error) {
	df := t.df.Subset(rows)
	if df.Err != nil {
		return nil, fmt.Errorf("subset rows: %w", df.Err)
	}
	return &Table{Name: t.Name, df: df}, nil
}
