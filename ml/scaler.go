package ml

import (
	"math"

	"gonum.org/v1/gonum/mat"

	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance. A
// feature with zero spread divides by one instead, leaving it centered.
type StandardScaler struct {
	state *StateManager

	Mean      []float64
	Scale     []float64
	NFeatures int
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: NewStateManager()}
}

// Fit computes per-feature mean and population std from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return dserrors.NewModelError("StandardScaler.Fit", "empty data", dserrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(r)

		sumSquares := 0.0
		for i := 0; i < r; i++ {
			d := X.At(i, j) - s.Mean[j]
			sumSquares += d * d
		}
		s.Scale[j] = math.Sqrt(sumSquares / float64(r))
		if s.Scale[j] < 1e-8 {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetFitted()
	return nil
}

// Transform standardizes X using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, dserrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one step.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
