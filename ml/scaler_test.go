package ml_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/datasight/ml"
)

func TestStandardScalerZeroMeanUnitVariance(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 5,
		3, 6,
	})

	scaler := ml.NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for j := 0; j < 2; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < 3; i++ {
			v := scaled.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / 3
		variance := sumSq/3 - mean*mean
		if math.Abs(mean) > epsilon {
			t.Errorf("feature %d: mean %v, expected 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-6 {
			t.Errorf("feature %d: variance %v, expected 1", j, variance)
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	scaler := ml.NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Zero spread divides by one: the feature is centered, not scaled.
	for i := 0; i < 3; i++ {
		if got := scaled.At(i, 0); got != 0 {
			t.Errorf("constant feature row %d: expected 0, got %v", i, got)
		}
	}
}

func TestStandardScalerTransformBeforeFit(t *testing.T) {
	scaler := ml.NewStandardScaler()
	if _, err := scaler.Transform(mat.NewDense(1, 1, nil)); err == nil {
		t.Fatal("expected not-fitted error")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := ml.NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("expected dimension error")
	}
}

func TestStandardScalerEmptyData(t *testing.T) {
	scaler := ml.NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(1, 1, nil)); err != nil {
		t.Fatalf("Fit on 1x1 failed: %v", err)
	}

	scaler = ml.NewStandardScaler()
	if err := scaler.Fit(&mat.Dense{}); err == nil {
		t.Error("expected error on empty matrix")
	}
}
