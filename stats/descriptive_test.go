package stats_test

import (
	"math"
	"testing"

	"github.com/insightlab/datasight/stats"
)

const epsilon = 1e-9

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	cases := []struct {
		q    float64
		want float64
	}{
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{0, 1},
		{1, 4},
	}
	for _, c := range cases {
		got := stats.Quantile(values, c.q)
		if math.Abs(got-c.want) > epsilon {
			t.Errorf("Quantile(%v, %v): expected %v, got %v", values, c.q, c.want, got)
		}
	}
}

func TestMedianMatchesQuantile(t *testing.T) {
	values := []float64{5, 1, 9, 3, 7}
	if got := stats.Median(values); math.Abs(got-5) > epsilon {
		t.Errorf("Median: expected 5, got %v", got)
	}
	if m, q := stats.Median(values), stats.Quantile(values, 0.5); math.Abs(m-q) > epsilon {
		t.Errorf("Median %v != Quantile(0.5) %v", m, q)
	}
}

func TestEntropyBounds(t *testing.T) {
	single := map[string]int{"a": 10}
	if got := stats.Entropy(single); got != 0 {
		t.Errorf("entropy of single value: expected 0, got %v", got)
	}

	// Four equally frequent values: entropy is exactly log2(4) = 2 bits.
	uniform := map[string]int{"a": 5, "b": 5, "c": 5, "d": 5}
	if got := stats.Entropy(uniform); math.Abs(got-2) > epsilon {
		t.Errorf("entropy of 4 uniform values: expected 2, got %v", got)
	}

	skewed := map[string]int{"a": 9, "b": 1}
	got := stats.Entropy(skewed)
	if got <= 0 || got >= 1 {
		t.Errorf("entropy of skewed distribution: expected in (0,1), got %v", got)
	}
}

func TestSkewnessEdgeCases(t *testing.T) {
	if got := stats.Skewness([]float64{1, 2}); got != 0 {
		t.Errorf("skewness with n<3: expected 0, got %v", got)
	}
	if got := stats.Skewness([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("skewness with zero std: expected 0, got %v", got)
	}

	// A long right tail gives positive skew.
	if got := stats.Skewness([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}); got <= 0 {
		t.Errorf("right-tailed data: expected positive skewness, got %v", got)
	}
}

func TestKurtosisEdgeCases(t *testing.T) {
	if got := stats.ExcessKurtosis([]float64{1, 2, 3}); got != 0 {
		t.Errorf("kurtosis with n<4: expected 0, got %v", got)
	}
	if got := stats.ExcessKurtosis([]float64{2, 2, 2, 2, 2}); got != 0 {
		t.Errorf("kurtosis with zero std: expected 0, got %v", got)
	}
}

func TestZScoresZeroStd(t *testing.T) {
	scores := stats.ZScores([]float64{3, 3, 3})
	for i, z := range scores {
		if z != 0 {
			t.Errorf("z-score[%d] of constant column: expected 0, got %v", i, z)
		}
	}
}

func TestModeFirstSeenTieBreak(t *testing.T) {
	value, count, ok := stats.Mode([]string{"b", "a", "a", "b"})
	if !ok {
		t.Fatal("Mode: expected ok")
	}
	if value != "b" || count != 2 {
		t.Errorf("Mode tie: expected first-seen \"b\" with count 2, got %q with %d", value, count)
	}
}

func TestPopulationVariance(t *testing.T) {
	// Population variance of [1,2,3] is 2/3.
	got := stats.PopulationVariance([]float64{1, 2, 3})
	if math.Abs(got-2.0/3.0) > epsilon {
		t.Errorf("PopulationVariance: expected %v, got %v", 2.0/3.0, got)
	}
}
