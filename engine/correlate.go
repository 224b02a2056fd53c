package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// CORRELATION — Pearson matrix over a feature matrix
// ============================================================================
// Pairs involving a constant column are undefined and stored as NaN.
// Values are clamped to [-1, 1] and the matrix is symmetric by construction.
// ============================================================================

// Correlation is a square Pearson correlation matrix with named axes.
type Correlation struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
	index   map[string]int
}

// CorrelationMatrix computes pairwise Pearson coefficients of every column.
func CorrelationMatrix(f *Features) *Correlation {
	k := len(f.Columns)
	c := &Correlation{
		Columns: f.Columns,
		Values:  make([][]float64, k),
		index:   make(map[string]int, k),
	}
	for i := range c.Values {
		c.Values[i] = make([]float64, k)
		c.index[f.Columns[i]] = i
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			r := pearson(f.Data[i], f.Data[j])
			c.Values[i][j] = r
			c.Values[j][i] = r
		}
	}
	return c
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return r
	}
	return math.Max(-1, math.Min(1, r))
}

// At returns the coefficient for a pair of columns.
func (c *Correlation) At(a, b string) (float64, bool) {
	i, okA := c.index[a]
	j, okB := c.index[b]
	if !okA || !okB {
		return math.NaN(), false
	}
	return c.Values[i][j], true
}

// Target extracts the correlations of every other column with target,
// drops undefined coefficients and sorts descending.
func (c *Correlation) Target(target string) ([]Group, error) {
	t, ok := c.index[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, target)
	}

	groups := make([]Group, 0, len(c.Columns)-1)
	for j, col := range c.Columns {
		if j == t {
			continue
		}
		groups = append(groups, Group{
			Key:   col,
			Label: col,
			Value: c.Values[t][j],
		})
	}
	groups = DropNaN(groups)
	SortGroups(groups, SortValueDesc)
	return groups, nil
}
