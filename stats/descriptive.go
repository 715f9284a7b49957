// Package stats is the shared statistics module consumed by every pipeline
// stage. The quality profiler, cleaning engine, summarizer, feature selector,
// and anomaly scorer all call the same quantile/moment/outlier/correlation
// primitives here, so their numeric semantics cannot drift apart.
//
// Simple aggregates delegate to montanaflynn/stats. Quantiles use linear
// interpolation (the R-7 definition), and the third/fourth moments use the
// bias-corrected sample forms, neither of which the library provides.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	m, err := mstats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// Min returns the smallest value, or 0 for an empty slice.
func Min(values []float64) float64 {
	m, err := mstats.Min(values)
	if err != nil {
		return 0
	}
	return m
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []float64) float64 {
	m, err := mstats.Max(values)
	if err != nil {
		return 0
	}
	return m
}

// PopulationVariance returns the population variance (divisor N), or 0 for
// an empty slice.
func PopulationVariance(values []float64) float64 {
	v, err := mstats.PopulationVariance(values)
	if err != nil {
		return 0
	}
	return v
}

// PopulationStdDev returns the population standard deviation, or 0 for an
// empty slice.
func PopulationStdDev(values []float64) float64 {
	s, err := mstats.StandardDeviationPopulation(values)
	if err != nil {
		return 0
	}
	return s
}

// Quantile computes the q-th quantile (q in [0,1]) with linear interpolation
// between order statistics: position = q*(n-1). Quantile(v, 0.5) equals the
// standard median.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns Quantile(values, 0.5).
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Skewness returns the bias-corrected sample skewness (adjusted
// Fisher-Pearson coefficient). Fewer than 3 values or zero spread yields 0.
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	mean := Mean(values)
	std := PopulationStdDev(values)
	if std == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / std
		sum += d * d * d
	}
	return (sum / n) * math.Sqrt(n*(n-1)) / (n - 2)
}

// ExcessKurtosis returns the bias-corrected sample excess kurtosis. Fewer
// than 4 values or zero spread yields 0.
func ExcessKurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}
	mean := Mean(values)
	std := PopulationStdDev(values)
	if std == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / std
		sum += d * d * d * d
	}
	m4 := sum / n

	// Sample excess kurtosis with the standard small-sample correction.
	return ((n+1)*m4 - 3*(n-1)) * (n - 1) / ((n - 2) * (n - 3))
}

// Entropy returns the Shannon entropy, in bits, of a frequency distribution.
// A single distinct value yields exactly 0; N equally frequent values yield
// log2(N).
func Entropy(counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	if entropy < 0 {
		entropy = 0
	}
	return entropy
}

// Mode returns the most frequent value and its count. Ties break toward the
// first value encountered in slice order. ok is false for an empty slice.
func Mode(values []string) (value string, count int, ok bool) {
	if len(values) == 0 {
		return "", 0, false
	}
	freq := make(map[string]int, len(values))
	for _, v := range values {
		freq[v]++
	}
	// Scan in slice order so ties break toward the first-seen value.
	for _, v := range values {
		if freq[v] > count {
			count = freq[v]
			value = v
		}
	}
	return value, count, true
}

// ZScores standardizes values against the whole-slice mean and population
// std. A zero std yields all zeros.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	mean := Mean(values)
	std := PopulationStdDev(values)
	if std == 0 {
		return out
	}
	for i, x := range values {
		out[i] = (x - mean) / std
	}
	return out
}
