// Package ml implements the model training engine: from-scratch decision
// tree, random forest, logistic regression, and k-means, a shared training
// interface, evaluation metrics, and the trainer that runs Preprocess ->
// Split -> Train -> Evaluate -> Aggregate over a cleaned dataset.
//
// The models are intentionally small, deterministic approximations used to
// produce comparative, explainable performance numbers on a held-out split;
// they are not a production training framework. All randomness (forest
// bootstrap sampling, k-means centroid initialization) flows from an
// injectable seed so runs are reproducible.
package ml

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is the uniform training surface the trainer is written
// against. Each concrete model is one variant of this closed set.
type Classifier interface {
	// Fit trains on features X (n_samples x n_features) and labels y
	// (n_samples x 1).
	Fit(X, y mat.Matrix) error

	// Predict returns an n_samples x 1 column of predicted labels.
	Predict(X mat.Matrix) (mat.Matrix, error)

	// Name identifies the model in results and logs.
	Name() string

	// Params reports the hyperparameters used, for the results payload.
	Params() map[string]interface{}
}

// StateManager tracks fitted state by composition, guarding prediction on
// untrained models.
type StateManager struct {
	fitted bool
}

// NewStateManager returns an unfitted state manager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether SetFitted has been called.
func (s *StateManager) IsFitted() bool {
	return s.fitted
}

// SetFitted marks the model as trained.
func (s *StateManager) SetFitted() {
	s.fitted = true
}

// Reset returns the model to the untrained state.
func (s *StateManager) Reset() {
	s.fitted = false
}
