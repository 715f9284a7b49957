package stats

import (
	"sort"

	"github.com/insightlab/datasight/dataset"
)

const (
	histogramBuckets = 10
	topValueLimit    = 10
)

// HistogramBucket is one bin of a numeric column's distribution.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// ValueFrequency is one entry of a categorical column's top-value list.
type ValueFrequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution is the presentation payload for one column: a histogram for
// numeric columns, a top-value frequency list otherwise.
type Distribution struct {
	Column    string            `json:"column"`
	Kind      dataset.Kind      `json:"kind"`
	Histogram []HistogramBucket `json:"histogram,omitempty"`
	TopValues []ValueFrequency  `json:"top_values,omitempty"`
}

// Distributions builds the per-column distribution payloads the external
// presentation layer renders as charts. maxRows > 0 caps the scan.
func Distributions(ds *dataset.Dataset, maxRows int) []Distribution {
	rows := ds.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	out := make([]Distribution, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		kind := ds.Types[col]
		d := Distribution{Column: col, Kind: kind}
		if kind == dataset.Numeric {
			d.Histogram = histogram(rows, col)
		} else {
			d.TopValues = topValues(rows, col)
		}
		out = append(out, d)
	}
	return out
}

func histogram(rows []dataset.Row, col string) []HistogramBucket {
	var values []float64
	for _, row := range rows {
		if f, ok := dataset.AsNumber(row[col]); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return nil
	}

	lo := Min(values)
	hi := Max(values)
	if lo == hi {
		return []HistogramBucket{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / histogramBuckets
	buckets := make([]HistogramBucket, histogramBuckets)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= histogramBuckets {
			idx = histogramBuckets - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

func topValues(rows []dataset.Row, col string) []ValueFrequency {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		v := row[col]
		if dataset.IsMissing(v) {
			continue
		}
		s := dataset.CellString(v)
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		return nil
	}

	out := make([]ValueFrequency, 0, len(order))
	for _, v := range order {
		out = append(out, ValueFrequency{Value: v, Count: counts[v]})
	}
	// Descending by count, first-seen order on ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topValueLimit {
		out = out[:topValueLimit]
	}
	return out
}
