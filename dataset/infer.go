package dataset

// Type inference classifies each column from a capped sample of its
// non-missing values. Checks run in a fixed order so a column of "0"/"1"
// tokens lands on boolean before numeric, and a column of pure digits is
// never miscast as a date:
//
//	boolean (>=80% parse) -> numeric (>=80%) -> datetime (>=70%) -> categorical
//
// Categorical is the fallback and always succeeds.

const (
	// DefaultSampleSize caps how many rows inference examines per column.
	DefaultSampleSize = 1000

	booleanThreshold  = 0.8
	numericThreshold  = 0.8
	datetimeThreshold = 0.7
)

// InferTypes returns a copy of the dataset with Types populated. The
// receiver is never mutated; re-inference always yields a new dataset.
func (d *Dataset) InferTypes(sampleSize int) *Dataset {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	out := d.Clone()
	out.Types = make(map[string]Kind, len(d.Columns))
	for _, col := range d.Columns {
		out.Types[col] = inferColumn(d.sampleColumn(col, sampleSize))
	}
	return out
}

// sampleColumn collects up to limit non-missing values from the first rows.
func (d *Dataset) sampleColumn(name string, limit int) []interface{} {
	var sample []interface{}
	for _, row := range d.Rows {
		if len(sample) >= limit {
			break
		}
		v := row[name]
		if IsMissing(v) {
			continue
		}
		sample = append(sample, v)
	}
	return sample
}

func inferColumn(sample []interface{}) Kind {
	if len(sample) == 0 {
		return Categorical
	}

	total := float64(len(sample))
	boolHits, numHits, timeHits := 0, 0, 0
	for _, v := range sample {
		if _, ok := AsBool(v); ok {
			boolHits++
		}
		if _, ok := AsNumber(v); ok {
			numHits++
		}
		if _, ok := AsTime(v); ok {
			timeHits++
		}
	}

	if float64(boolHits)/total >= booleanThreshold {
		return Boolean
	}
	if float64(numHits)/total >= numericThreshold {
		return Numeric
	}
	if float64(timeHits)/total >= datetimeThreshold {
		return Datetime
	}
	return Categorical
}
