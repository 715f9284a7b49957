package stats

import (
	"github.com/insightlab/datasight/dataset"
)

// ColumnSummary carries the descriptive statistics for one column. Numeric
// fields are populated for numeric columns; the unique/top/entropy fields
// for categorical, boolean, and datetime columns. Summaries are computed
// fresh from a dataset snapshot and never mutated.
type ColumnSummary struct {
	Column         string       `json:"column"`
	Kind           dataset.Kind `json:"kind"`
	Count          int          `json:"count"`
	Missing        int          `json:"missing"`
	MissingPercent float64      `json:"missing_percent"`

	// Numeric columns.
	Mean           float64 `json:"mean,omitempty"`
	Median         float64 `json:"median,omitempty"`
	StdDev         float64 `json:"std_dev,omitempty"`
	Variance       float64 `json:"variance,omitempty"`
	Skewness       float64 `json:"skewness,omitempty"`
	Kurtosis       float64 `json:"kurtosis,omitempty"`
	MinValue       float64 `json:"min,omitempty"`
	MaxValue       float64 `json:"max,omitempty"`
	Q1             float64 `json:"q1,omitempty"`
	Q3             float64 `json:"q3,omitempty"`
	IQR            float64 `json:"iqr,omitempty"`
	OutlierCount   int     `json:"outlier_count,omitempty"`
	OutlierPercent float64 `json:"outlier_percent,omitempty"`

	// Categorical / boolean / datetime columns.
	UniqueCount   int     `json:"unique_count,omitempty"`
	TopValue      string  `json:"top_value,omitempty"`
	TopValueCount int     `json:"top_value_count,omitempty"`
	Entropy       float64 `json:"entropy,omitempty"`
}

// Summarize computes a ColumnSummary for every column of a (cleaned)
// dataset, in source column order. maxRows > 0 caps the scan per column.
func Summarize(ds *dataset.Dataset, maxRows int) []ColumnSummary {
	rows := ds.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	summaries := make([]ColumnSummary, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		summaries = append(summaries, summarizeColumn(rows, col, ds.Types[col]))
	}
	return summaries
}

func summarizeColumn(rows []dataset.Row, col string, kind dataset.Kind) ColumnSummary {
	s := ColumnSummary{Column: col, Kind: kind, Count: len(rows)}

	var numbers []float64
	var tokens []string
	for _, row := range rows {
		v := row[col]
		if dataset.IsMissing(v) {
			s.Missing++
			continue
		}
		if kind == dataset.Numeric {
			if f, ok := dataset.AsNumber(v); ok {
				numbers = append(numbers, f)
			}
			continue
		}
		tokens = append(tokens, dataset.CellString(v))
	}
	if s.Count > 0 {
		s.MissingPercent = 100 * float64(s.Missing) / float64(s.Count)
	}

	if kind == dataset.Numeric {
		fillNumeric(&s, numbers)
		return s
	}

	fillCategorical(&s, tokens)
	return s
}

func fillNumeric(s *ColumnSummary, values []float64) {
	if len(values) == 0 {
		return
	}
	s.Mean = Mean(values)
	s.Median = Median(values)
	s.StdDev = PopulationStdDev(values)
	s.Variance = PopulationVariance(values)
	s.Skewness = Skewness(values)
	s.Kurtosis = ExcessKurtosis(values)
	s.MinValue = Min(values)
	s.MaxValue = Max(values)
	s.Q1 = Quantile(values, 0.25)
	s.Q3 = Quantile(values, 0.75)
	s.IQR = s.Q3 - s.Q1
	s.OutlierCount = CountIQROutliers(values)
	s.OutlierPercent = 100 * float64(s.OutlierCount) / float64(len(values))
}

func fillCategorical(s *ColumnSummary, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	s.UniqueCount = len(counts)
	s.Entropy = Entropy(counts)
	if top, n, ok := Mode(tokens); ok {
		s.TopValue = top
		s.TopValueCount = n
	}
}
