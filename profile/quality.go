// Package profile measures the quality of a dataset snapshot: missing
// cells, duplicate rows, outliers, and a single 0-100 quality score derived
// from them.
package profile

import (
	"strings"
	"time"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/pkg/log"
	"github.com/insightlab/datasight/stats"
)

// Score weights: completeness dominates, uniqueness and validity split the
// rest.
const (
	completenessWeight = 0.4
	uniquenessWeight   = 0.3
	validityWeight     = 0.3
)

// ColumnOutliers is one numeric column's flagged-outlier tally, measured
// on the raw data before any capping runs.
type ColumnOutliers struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report is the quality profiler's output.
type Report struct {
	MissingCells   int              `json:"missing_cells"`
	DuplicateRows  int              `json:"duplicate_rows"`
	Outliers       int              `json:"outliers"`
	OutlierColumns []ColumnOutliers `json:"outlier_columns,omitempty"`
	Completeness   float64          `json:"completeness"`
	Uniqueness     float64          `json:"uniqueness"`
	Validity       float64          `json:"validity"`
	Score          float64          `json:"score"`
}

// Profile scans a typed dataset and returns its quality report.
//
// A cell is missing per dataset.IsMissing. Duplicates are exact value-tuple
// matches over all columns. The outlier total sums, per numeric column, the
// minimum of the IQR, Z-score, and modified Z-score estimators; the
// conservative per-column minimum avoids double-counting one aberrant
// column through multiple methods.
func Profile(ds *dataset.Dataset) Report {
	started := time.Now()

	r := Report{
		MissingCells:  countMissing(ds),
		DuplicateRows: countDuplicates(ds),
	}
	r.Outliers, r.OutlierColumns = countOutliers(ds)

	rows := len(ds.Rows)
	cells := rows * len(ds.Columns)
	r.Completeness = 1.0
	if cells > 0 {
		r.Completeness = 1 - float64(r.MissingCells)/float64(cells)
	}
	r.Uniqueness = 1.0
	r.Validity = 1.0
	if rows > 0 {
		r.Uniqueness = 1 - float64(r.DuplicateRows)/float64(rows)
		r.Validity = 1 - float64(r.Outliers)/float64(rows)
	}

	r.Score = clampScore(100 * (completenessWeight*r.Completeness +
		uniquenessWeight*r.Uniqueness +
		validityWeight*r.Validity))

	log.GetLoggerWithName("profile").Info("quality profiled",
		log.RowsKey, rows,
		log.ColumnsKey, len(ds.Columns),
		"score", r.Score,
		log.DurationKey, time.Since(started).Milliseconds(),
	)
	return r
}

// Apply writes the report's counters onto a dataset summary.
func (r Report) Apply(ds *dataset.Dataset) {
	ds.Summary.MissingValues = r.MissingCells
	ds.Summary.DuplicateRows = r.DuplicateRows
	ds.Summary.Outliers = r.Outliers
	ds.Summary.QualityScore = r.Score
}

func countMissing(ds *dataset.Dataset) int {
	missing := 0
	for _, row := range ds.Rows {
		for _, col := range ds.Columns {
			if dataset.IsMissing(row[col]) {
				missing++
			}
		}
	}
	return missing
}

// countDuplicates counts rows whose full value tuple was already seen.
func countDuplicates(ds *dataset.Dataset) int {
	seen := make(map[string]bool, len(ds.Rows))
	duplicates := 0
	for _, row := range ds.Rows {
		key := RowKey(ds.Columns, row)
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return duplicates
}

func countOutliers(ds *dataset.Dataset) (int, []ColumnOutliers) {
	total := 0
	var byColumn []ColumnOutliers
	for _, col := range ds.NumericColumns() {
		var values []float64
		for _, row := range ds.Rows {
			if f, ok := dataset.AsNumber(row[col]); ok {
				values = append(values, f)
			}
		}
		count := stats.ConservativeOutlierCount(values)
		total += count
		if count > 0 {
			byColumn = append(byColumn, ColumnOutliers{
				Column:  col,
				Count:   count,
				Percent: 100 * float64(count) / float64(len(values)),
			})
		}
	}
	return total, byColumn
}

// RowKey builds the duplicate-detection key: the column-ordered string
// representations of every cell. Shared with the cleaning engine so both
// stages agree on what a duplicate is.
func RowKey(columns []string, row dataset.Row) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = dataset.CellString(row[col])
	}
	return strings.Join(parts, "\x1f")
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
