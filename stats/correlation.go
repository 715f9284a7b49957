package stats

import (
	"math"

	"github.com/insightlab/datasight/dataset"
)

// CorrelationMatrix maps numeric-column pairs to Pearson coefficients. It is
// symmetric by construction and its diagonal is exactly 1.
type CorrelationMatrix struct {
	Columns []string                      `json:"columns"`
	Values  map[string]map[string]float64 `json:"values"`
}

// At returns the coefficient for a column pair, 0 when either is absent.
func (m CorrelationMatrix) At(a, b string) float64 {
	if row, ok := m.Values[a]; ok {
		return row[b]
	}
	return 0
}

// Pearson computes the sample Pearson correlation of two equal-length
// slices. Zero spread in either slice yields 0.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}
	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	r := cov / math.Sqrt(varX*varY)
	// Guard against floating-point drift past the mathematical bounds.
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}

// Correlations builds the pairwise-complete Pearson matrix over the
// dataset's numeric columns: each pair uses only the rows where both cells
// coerce to numbers, so different pairs may see different effective row
// sets. maxRows > 0 caps the scan for very large inputs.
func Correlations(ds *dataset.Dataset, maxRows int) CorrelationMatrix {
	cols := ds.NumericColumns()
	matrix := CorrelationMatrix{
		Columns: cols,
		Values:  make(map[string]map[string]float64, len(cols)),
	}
	for _, col := range cols {
		matrix.Values[col] = make(map[string]float64, len(cols))
	}

	rows := ds.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	for i, a := range cols {
		matrix.Values[a][a] = 1
		for _, b := range cols[i+1:] {
			var xs, ys []float64
			for _, row := range rows {
				xv, okX := dataset.AsNumber(row[a])
				yv, okY := dataset.AsNumber(row[b])
				if okX && okY {
					xs = append(xs, xv)
					ys = append(ys, yv)
				}
			}
			r := Pearson(xs, ys)
			matrix.Values[a][b] = r
			matrix.Values[b][a] = r
		}
	}
	return matrix
}
