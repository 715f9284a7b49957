package stats

import (
	"math"
	"sort"

	"github.com/insightlab/datasight/dataset"
)

// Anomaly scoring thresholds: a numeric cell contributes its |Z| when it
// exceeds contributionFence, and a row is flagged when the summed score
// passes rowScoreFence.
const (
	contributionFence = 2.0
	rowScoreFence     = 3.0
	maxAnomalies      = 10
)

// RowAnomaly flags a row whose numeric cells deviate strongly from their
// column distributions.
type RowAnomaly struct {
	RowIndex int      `json:"row_index"`
	Score    float64  `json:"score"`
	Columns  []string `json:"columns"`
}

// DetectAnomalies scores each row by summing the absolute Z-scores of every
// numeric cell with |Z| > 2, flags rows with total score > 3, and returns
// the top 10 ranked descending by score. maxRows > 0 caps the scan.
func DetectAnomalies(ds *dataset.Dataset, maxRows int) []RowAnomaly {
	rows := ds.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	cols := ds.NumericColumns()
	if len(cols) == 0 || len(rows) == 0 {
		return nil
	}

	// Column-wise Z-scores against whole-column mean/std; rows whose cell is
	// non-numeric contribute 0 for that column.
	zByCol := make(map[string][]float64, len(cols))
	for _, col := range cols {
		values := make([]float64, len(rows))
		for i, row := range rows {
			if f, ok := dataset.AsNumber(row[col]); ok {
				values[i] = f
			}
		}
		zByCol[col] = ZScores(values)
	}

	var anomalies []RowAnomaly
	for i := range rows {
		score := 0.0
		var flagged []string
		for _, col := range cols {
			z := math.Abs(zByCol[col][i])
			if z > contributionFence {
				score += z
				flagged = append(flagged, col)
			}
		}
		if score > rowScoreFence {
			anomalies = append(anomalies, RowAnomaly{RowIndex: i, Score: score, Columns: flagged})
		}
	}

	sort.SliceStable(anomalies, func(a, b int) bool {
		return anomalies[a].Score > anomalies[b].Score
	})
	if len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}
