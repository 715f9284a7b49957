package ml

import (
	"math"

	"gonum.org/v1/gonum/mat"

	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// Logistic regression defaults and the linear-score clamp that keeps the
// sigmoid away from overflow.
const (
	DefaultLearningRate = 0.01
	DefaultIterations   = 1000
	scoreClamp          = 250.0
	decisionThreshold   = 0.5
)

// LogisticRegression is a binary classifier fitted by batch gradient
// descent on the logistic loss. Weights and bias start at zero and the
// learning rate is fixed.
type LogisticRegression struct {
	state        *StateManager
	learningRate float64
	iterations   int

	weights []float64
	bias    float64
	classes [2]int
}

// LogisticOption is a functional option for NewLogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithLearningRate sets the gradient-descent step size.
func WithLearningRate(lr float64) LogisticOption {
	return func(m *LogisticRegression) {
		m.learningRate = lr
	}
}

// WithIterations sets the fixed iteration count.
func WithIterations(n int) LogisticOption {
	return func(m *LogisticRegression) {
		m.iterations = n
	}
}

// NewLogisticRegression creates a logistic regression model with learning
// rate 0.01 and 1000 iterations by default.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{
		state:        NewStateManager(),
		learningRate: DefaultLearningRate,
		iterations:   DefaultIterations,
		classes:      [2]int{0, 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Classifier.
func (m *LogisticRegression) Name() string { return "logistic_regression" }

// Params implements Classifier.
func (m *LogisticRegression) Params() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": m.learningRate,
		"iterations":    m.iterations,
	}
}

// Fit runs batch gradient descent. Labels are interpreted as 0/1; any
// nonzero label counts as the positive class.
func (m *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer dserrors.Recover(&err, "LogisticRegression.Fit")

	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return dserrors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return dserrors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}
	if nSamples == 0 || nFeatures == 0 {
		return dserrors.NewModelError("LogisticRegression.Fit", "empty data", dserrors.ErrEmptyData)
	}

	m.weights = make([]float64, nFeatures)
	m.bias = 0

	labels := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) != 0 {
			labels[i] = 1
		}
	}

	for iter := 0; iter < m.iterations; iter++ {
		gradW := make([]float64, nFeatures)
		gradB := 0.0

		for i := 0; i < nSamples; i++ {
			p := m.probability(X, i)
			diff := p - labels[i]
			gradB += diff
			for j := 0; j < nFeatures; j++ {
				gradW[j] += diff * X.At(i, j)
			}
		}

		invN := 1.0 / float64(nSamples)
		for j := 0; j < nFeatures; j++ {
			m.weights[j] -= m.learningRate * gradW[j] * invN
		}
		m.bias -= m.learningRate * gradB * invN
	}

	m.state.SetFitted()
	return nil
}

// probability computes sigmoid(w.x + b) with the linear score clamped to
// [-250, 250].
func (m *LogisticRegression) probability(X mat.Matrix, row int) float64 {
	z := m.bias
	for j, w := range m.weights {
		z += w * X.At(row, j)
	}
	if z > scoreClamp {
		z = scoreClamp
	} else if z < -scoreClamp {
		z = -scoreClamp
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// Predict thresholds the positive-class probability at 0.5.
func (m *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("LogisticRegression", "Predict")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != len(m.weights) {
		return nil, dserrors.NewDimensionError("LogisticRegression.Predict", len(m.weights), nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if m.probability(X, i) >= decisionThreshold {
			predictions.Set(i, 0, float64(m.classes[1]))
		} else {
			predictions.Set(i, 0, float64(m.classes[0]))
		}
	}
	return predictions, nil
}

// PredictProba returns the positive-class probability per sample, used by
// the ROC-AUC proxy.
func (m *LogisticRegression) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if !m.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	nSamples, _ := X.Dims()
	probs := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		probs.SetVec(i, m.probability(X, i))
	}
	return probs, nil
}

// FeatureImportances reports normalized absolute weights.
func (m *LogisticRegression) FeatureImportances() []float64 {
	out := make([]float64, len(m.weights))
	sum := 0.0
	for _, w := range m.weights {
		sum += math.Abs(w)
	}
	if sum == 0 {
		return out
	}
	for i, w := range m.weights {
		out[i] = math.Abs(w) / sum
	}
	return out
}
