package stats

import "math"

// Outlier fences. The 1.5x IQR fence, the |Z|>3 fence, and the
// median/MAD-based modified Z fence (>3.5) are the three estimators the
// profiler compares per column.
const (
	IQRFenceFactor     = 1.5
	ZScoreFence        = 3.0
	ModifiedZFence     = 3.5
	madScaleConsistent = 0.6745 // scales MAD to the std of a normal distribution
)

// IQRBounds returns the lower and upper 1.5x IQR fences. ok is false for an
// empty slice.
func IQRBounds(values []float64) (lower, upper float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - IQRFenceFactor*iqr, q3 + IQRFenceFactor*iqr, true
}

// CountIQROutliers counts values outside the 1.5x IQR fences.
func CountIQROutliers(values []float64) int {
	lower, upper, ok := IQRBounds(values)
	if !ok {
		return 0
	}
	count := 0
	for _, x := range values {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

// CountZScoreOutliers counts values with |Z| > 3 against the whole-column
// mean and population std. A zero std yields 0.
func CountZScoreOutliers(values []float64) int {
	count := 0
	for _, z := range ZScores(values) {
		if math.Abs(z) > ZScoreFence {
			count++
		}
	}
	return count
}

// CountModifiedZOutliers counts values whose modified Z-score (median and
// MAD based, robust to extreme values) exceeds 3.5. A zero MAD yields 0.
func CountModifiedZOutliers(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	median := Median(values)
	deviations := make([]float64, len(values))
	for i, x := range values {
		deviations[i] = math.Abs(x - median)
	}
	mad := Median(deviations)
	if mad == 0 {
		return 0
	}

	count := 0
	for _, x := range values {
		mz := madScaleConsistent * (x - median) / mad
		if math.Abs(mz) > ModifiedZFence {
			count++
		}
	}
	return count
}

// ConservativeOutlierCount returns the minimum of the three per-column
// estimators. Taking the minimum per column avoids double-counting a single
// aberrant column through multiple methods.
func ConservativeOutlierCount(values []float64) int {
	n := CountIQROutliers(values)
	if z := CountZScoreOutliers(values); z < n {
		n = z
	}
	if mz := CountModifiedZOutliers(values); mz < n {
		n = mz
	}
	return n
}
