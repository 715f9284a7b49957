// Package dataset defines the tabular value object flowing through the
// datasight pipeline, together with ingestion adapters and per-column type
// inference.
//
// A Dataset is an ordered set of columns plus a sequence of records. Cell
// values are untyped at ingestion (strings from CSV/Excel, arbitrary values
// from a query source) and become typed after cleaning. Datasets are treated
// as immutable snapshots: every pipeline stage consumes one and produces a
// new one, so no locking is needed between stages.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies the semantic type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
	Datetime    Kind = "datetime"
	Boolean     Kind = "boolean"
)

// Origin tags where a dataset came from.
type Origin string

const (
	OriginFile     Origin = "file"
	OriginDatabase Origin = "database"
)

// Row maps column name to a cell value. Keys missing from the map are
// treated as missing values, not errors.
type Row map[string]interface{}

// Summary carries dataset-wide counters filled by the quality profiler.
type Summary struct {
	TotalRows     int     `json:"total_rows"`
	TotalColumns  int     `json:"total_columns"`
	MissingValues int     `json:"missing_values"`
	DuplicateRows int     `json:"duplicate_rows"`
	Outliers      int     `json:"outliers"`
	MemoryBytes   int64   `json:"memory_bytes"`
	QualityScore  float64 `json:"quality_score"`
}

// Metadata identifies the source of a dataset.
type Metadata struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	SourceSize int64     `json:"source_size"`
	Origin     Origin    `json:"origin"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Dataset is the central tabular value object.
//
// Invariants: len(Columns) == len(Types) once types are inferred; every key
// in Types appears in Columns; every record's keys are a subset of Columns.
type Dataset struct {
	Columns  []string        `json:"columns"`
	Rows     []Row           `json:"rows"`
	Types    map[string]Kind `json:"column_types"`
	Summary  Summary         `json:"summary"`
	Metadata Metadata        `json:"metadata"`
}

// New creates a dataset from ordered columns and rows, stamping fresh
// metadata. Types are left nil until InferTypes runs.
func New(columns []string, rows []Row, source string, origin Origin) *Dataset {
	ds := &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    rows,
		Metadata: Metadata{
			ID:         uuid.NewString(),
			Source:     source,
			Origin:     origin,
			IngestedAt: time.Now().UTC(),
		},
	}
	ds.Summary.TotalRows = len(rows)
	ds.Summary.TotalColumns = len(columns)
	ds.Summary.MemoryBytes = ds.estimateMemory()
	return ds
}

// Clone returns a deep copy. Pipeline stages that rewrite cells operate on a
// clone so the caller's snapshot is never mutated.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns:  append([]string(nil), d.Columns...),
		Rows:     make([]Row, len(d.Rows)),
		Summary:  d.Summary,
		Metadata: d.Metadata,
	}
	if d.Types != nil {
		out.Types = make(map[string]Kind, len(d.Types))
		for k, v := range d.Types {
			out.Types[k] = v
		}
	}
	for i, row := range d.Rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// Column collects the values of one column in row order. Rows without the
// key contribute nil.
func (d *Dataset) Column(name string) []interface{} {
	values := make([]interface{}, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values
}

// NumericColumns returns the names of columns typed numeric, in source order.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, col := range d.Columns {
		if d.Types[col] == Numeric {
			out = append(out, col)
		}
	}
	return out
}

// estimateMemory approximates the in-memory footprint of the row data.
func (d *Dataset) estimateMemory() int64 {
	var total int64
	for _, row := range d.Rows {
		for k, v := range row {
			total += int64(len(k)) + valueSize(v)
		}
	}
	return total
}

func valueSize(v interface{}) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(t))
	case bool:
		return 1
	default:
		return 8
	}
}

// IsMissing reports whether a cell value counts as missing: nil, empty
// string, or the literal tokens "null"/"undefined" (case-insensitive).
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "" || s == "null" || s == "undefined"
}

// AsNumber coerces a cell value to float64. String representations are
// stripped of thousands separators, currency symbols, percent signs, and
// surrounding whitespace before parsing.
func AsNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		cleaned := cleanNumericString(t)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func cleanNumericString(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ',', '$', '€', '£', '¥', '%', ' ':
			// stripped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AsBool coerces a cell value to a boolean using the canonical token set
// true/false/yes/no/1/0/y/n, case-insensitive.
func AsBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		if t == 1 {
			return true, true
		}
		if t == 0 {
			return false, true
		}
		return false, false
	case string:
		switch strings.TrimSpace(strings.ToLower(t)) {
		case "true", "yes", "1", "y":
			return true, true
		case "false", "no", "0", "n":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// AsTime coerces a cell value to a timestamp using a fixed set of layouts.
func AsTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range datetimeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// CellString renders a cell value for key-building and display. Numbers use
// a compact form so 1 and 1.0 collide, which is what duplicate detection
// wants.
func CellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}
