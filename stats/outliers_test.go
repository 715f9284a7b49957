package stats_test

import (
	"math"
	"testing"

	"github.com/insightlab/datasight/stats"
)

func TestIQROutlierDetection(t *testing.T) {
	// Nine ones and one extreme value: the 100 must be flagged.
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}

	if got := stats.CountIQROutliers(values); got != 1 {
		t.Errorf("CountIQROutliers: expected 1, got %d", got)
	}

	lower, upper, ok := stats.IQRBounds(values)
	if !ok {
		t.Fatal("IQRBounds: expected ok")
	}
	if upper >= 100 {
		t.Errorf("upper fence %v should exclude the extreme value", upper)
	}
	if lower > 1 {
		t.Errorf("lower fence %v should include the bulk value", lower)
	}
}

func TestIQRBoundsDegenerate(t *testing.T) {
	if _, _, ok := stats.IQRBounds(nil); ok {
		t.Error("IQRBounds of empty slice: expected not ok")
	}
}

func TestConservativeOutlierCount(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}

	conservative := stats.ConservativeOutlierCount(values)
	iqr := stats.CountIQROutliers(values)
	z := stats.CountZScoreOutliers(values)
	modZ := stats.CountModifiedZOutliers(values)

	minimum := int(math.Min(float64(iqr), math.Min(float64(z), float64(modZ))))
	if conservative != minimum {
		t.Errorf("ConservativeOutlierCount: expected min(%d,%d,%d)=%d, got %d",
			iqr, z, modZ, minimum, conservative)
	}
}

func TestNoOutliersInUniformData(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15}
	if got := stats.ConservativeOutlierCount(values); got != 0 {
		t.Errorf("uniform data: expected 0 outliers, got %d", got)
	}
}
