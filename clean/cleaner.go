// Package clean rewrites a dataset snapshot into a cleaned dataset plus an
// ordered transformation log.
//
// Steps run in a fixed order: impute -> dedupe -> cap outliers -> normalize
// types. Imputation must precede duplicate removal so dedupe operates on
// comparable rows, and dedupe precedes capping so bounds are computed on
// deduplicated data. Outliers are capped to the IQR fences, never dropped,
// so row count is preserved through that step.
package clean

import (
	"fmt"
	"time"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/pkg/log"
	"github.com/insightlab/datasight/profile"
	"github.com/insightlab/datasight/stats"
)

// Columns with fewer valid values than this are left uncapped; the IQR
// fences are too unstable below it.
const minValuesForCapping = 10

// Options toggles individual cleaning steps. The zero value disables
// everything; DefaultOptions enables all four steps.
type Options struct {
	Impute         bool
	Deduplicate    bool
	CapOutliers    bool
	NormalizeTypes bool
}

// DefaultOptions enables every cleaning step.
func DefaultOptions() Options {
	return Options{Impute: true, Deduplicate: true, CapOutliers: true, NormalizeTypes: true}
}

// Transformation is one entry of the audit log.
type Transformation struct {
	Step    string `json:"step"`
	Column  string `json:"column,omitempty"`
	Detail  string `json:"detail"`
	Applied int    `json:"applied"`
}

// Result pairs the cleaned dataset with its transformation log.
type Result struct {
	Dataset *dataset.Dataset
	Log     []Transformation
}

// Clean runs the enabled steps against a typed dataset snapshot and returns
// a new dataset; the input is never mutated.
func Clean(ds *dataset.Dataset, opts Options) Result {
	started := time.Now()
	out := ds.Clone()
	var tlog []Transformation

	if opts.Impute {
		tlog = append(tlog, imputeMissing(out)...)
	}
	if opts.Deduplicate {
		if t, removed := deduplicate(out); removed > 0 {
			tlog = append(tlog, t)
		}
	}
	if opts.CapOutliers {
		tlog = append(tlog, capOutliers(out)...)
	}
	if opts.NormalizeTypes {
		tlog = append(tlog, normalizeTypes(out)...)
	}

	out.Summary.TotalRows = len(out.Rows)

	log.GetLoggerWithName("clean").Info("cleaning finished",
		log.RowsKey, len(out.Rows),
		"transformations", len(tlog),
		log.DurationKey, time.Since(started).Milliseconds(),
	)
	return Result{Dataset: out, Log: tlog}
}

// imputeMissing fills missing cells column by column: numeric columns get
// the median of the valid values, all other kinds get the mode. A column
// with zero valid values is skipped and the skip is recorded, leaving its
// missing markers in place.
func imputeMissing(ds *dataset.Dataset) []Transformation {
	var tlog []Transformation
	for _, col := range ds.Columns {
		var missingIdx []int
		var numbers []float64
		var tokens []string

		for i, row := range ds.Rows {
			v := row[col]
			if dataset.IsMissing(v) {
				missingIdx = append(missingIdx, i)
				continue
			}
			if ds.Types[col] == dataset.Numeric {
				if f, ok := dataset.AsNumber(v); ok {
					numbers = append(numbers, f)
				}
			} else {
				tokens = append(tokens, dataset.CellString(v))
			}
		}
		if len(missingIdx) == 0 {
			continue
		}

		var fill interface{}
		var detail string
		switch {
		case ds.Types[col] == dataset.Numeric && len(numbers) > 0:
			median := stats.Median(numbers)
			fill = median
			detail = fmt.Sprintf("imputed median %g", median)
		case ds.Types[col] != dataset.Numeric && len(tokens) > 0:
			mode, _, _ := stats.Mode(tokens)
			fill = mode
			detail = fmt.Sprintf("imputed mode %q", mode)
		default:
			// No valid values to derive a fill from; leave the markers.
			tlog = append(tlog, Transformation{
				Step:   "impute",
				Column: col,
				Detail: "skipped: column has no valid values",
			})
			continue
		}

		for _, i := range missingIdx {
			ds.Rows[i][col] = fill
		}
		tlog = append(tlog, Transformation{
			Step:    "impute",
			Column:  col,
			Detail:  detail,
			Applied: len(missingIdx),
		})
	}
	return tlog
}

// deduplicate keeps the first occurrence of each full value tuple,
// preserving row order.
func deduplicate(ds *dataset.Dataset) (Transformation, int) {
	seen := make(map[string]bool, len(ds.Rows))
	kept := ds.Rows[:0:0]
	for _, row := range ds.Rows {
		key := profile.RowKey(ds.Columns, row)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	removed := len(ds.Rows) - len(kept)
	ds.Rows = kept
	return Transformation{
		Step:    "deduplicate",
		Detail:  fmt.Sprintf("removed %d duplicate rows", removed),
		Applied: removed,
	}, removed
}

// capOutliers clamps numeric values outside the IQR fences to the nearest
// fence. Row count is unchanged; only cell values move.
func capOutliers(ds *dataset.Dataset) []Transformation {
	var tlog []Transformation
	for _, col := range ds.NumericColumns() {
		var values []float64
		for _, row := range ds.Rows {
			if f, ok := dataset.AsNumber(row[col]); ok {
				values = append(values, f)
			}
		}
		if len(values) < minValuesForCapping {
			continue
		}
		lower, upper, ok := stats.IQRBounds(values)
		if !ok {
			continue
		}

		capped := 0
		for _, row := range ds.Rows {
			f, okN := dataset.AsNumber(row[col])
			if !okN {
				continue
			}
			switch {
			case f < lower:
				row[col] = lower
				capped++
			case f > upper:
				row[col] = upper
				capped++
			}
		}
		if capped > 0 {
			tlog = append(tlog, Transformation{
				Step:    "cap_outliers",
				Column:  col,
				Detail:  fmt.Sprintf("capped to [%g, %g]", lower, upper),
				Applied: capped,
			})
		}
	}
	return tlog
}

// normalizeTypes converts raw representations to typed values: numeric
// columns become float64 (separators/currency/percent stripped), boolean
// columns become true/false.
func normalizeTypes(ds *dataset.Dataset) []Transformation {
	var tlog []Transformation
	for _, col := range ds.Columns {
		kind := ds.Types[col]
		if kind != dataset.Numeric && kind != dataset.Boolean {
			continue
		}
		converted := 0
		for _, row := range ds.Rows {
			v := row[col]
			if dataset.IsMissing(v) {
				continue
			}
			switch kind {
			case dataset.Numeric:
				if _, already := v.(float64); already {
					continue
				}
				if f, ok := dataset.AsNumber(v); ok {
					row[col] = f
					converted++
				}
			case dataset.Boolean:
				if _, already := v.(bool); already {
					continue
				}
				if b, ok := dataset.AsBool(v); ok {
					row[col] = b
					converted++
				}
			}
		}
		if converted > 0 {
			tlog = append(tlog, Transformation{
				Step:    "normalize",
				Column:  col,
				Detail:  "converted raw values to " + string(kind),
				Applied: converted,
			})
		}
	}
	return tlog
}
