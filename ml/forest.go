package ml

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// DefaultForestSize is the number of bagged trees.
const DefaultForestSize = 10

// RandomForest bags DecisionTrees over bootstrap resamples and predicts by
// majority vote. The bootstrap draws flow from a seeded generator so a run
// is reproducible.
type RandomForest struct {
	state    *StateManager
	nTrees   int
	maxDepth int
	seed     uint64

	trees   []*DecisionTree
	classes []int
}

// RandomForestOption is a functional option for NewRandomForest.
type RandomForestOption func(*RandomForest)

// WithForestSize sets the number of trees.
func WithForestSize(n int) RandomForestOption {
	return func(rf *RandomForest) {
		rf.nTrees = n
	}
}

// WithForestMaxDepth sets the per-tree depth limit.
func WithForestMaxDepth(depth int) RandomForestOption {
	return func(rf *RandomForest) {
		rf.maxDepth = depth
	}
}

// WithForestSeed seeds the bootstrap sampler.
func WithForestSeed(seed uint64) RandomForestOption {
	return func(rf *RandomForest) {
		rf.seed = seed
	}
}

// NewRandomForest creates a forest of 10 depth-5 trees by default.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		state:    NewStateManager(),
		nTrees:   DefaultForestSize,
		maxDepth: DefaultTreeDepth,
		seed:     1,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Name implements Classifier.
func (rf *RandomForest) Name() string { return "random_forest" }

// Params implements Classifier.
func (rf *RandomForest) Params() map[string]interface{} {
	return map[string]interface{}{
		"n_trees":   rf.nTrees,
		"max_depth": rf.maxDepth,
		"seed":      rf.seed,
	}
}

// Fit trains nTrees independent trees, each on a bootstrap resample of the
// same size as the training set, drawn with replacement.
func (rf *RandomForest) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return dserrors.NewDimensionError("RandomForest.Fit", nSamples, yRows, 0)
	}
	if nSamples == 0 || nFeatures == 0 {
		return dserrors.NewModelError("RandomForest.Fit", "empty data", dserrors.ErrEmptyData)
	}

	rng := rand.New(rand.NewPCG(rf.seed, rf.seed^0x9e3779b97f4a7c15))

	seen := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		seen[int(y.At(i, 0))] = true
	}
	rf.classes = rf.classes[:0]
	for class := range seen {
		rf.classes = append(rf.classes, class)
	}
	sort.Ints(rf.classes)

	rf.trees = make([]*DecisionTree, 0, rf.nTrees)
	for t := 0; t < rf.nTrees; t++ {
		bootX := mat.NewDense(nSamples, nFeatures, nil)
		bootY := mat.NewDense(nSamples, 1, nil)
		for i := 0; i < nSamples; i++ {
			src := rng.IntN(nSamples)
			for j := 0; j < nFeatures; j++ {
				bootX.Set(i, j, X.At(src, j))
			}
			bootY.Set(i, 0, y.At(src, 0))
		}

		tree := NewDecisionTree(WithTreeMaxDepth(rf.maxDepth))
		if err := tree.Fit(bootX, bootY); err != nil {
			return dserrors.Wrapf(err, "tree %d", t)
		}
		rf.trees = append(rf.trees, tree)
	}

	rf.state.SetFitted()
	return nil
}

// Predict takes the majority vote across trees; ties break toward the
// lower class label.
func (rf *RandomForest) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("RandomForest", "Predict")
	}

	nSamples, _ := X.Dims()
	votes := make([]map[int]int, nSamples)
	for i := range votes {
		votes[i] = make(map[int]int, len(rf.classes))
	}

	for _, tree := range rf.trees {
		preds, err := tree.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < nSamples; i++ {
			votes[i][int(preds.At(i, 0))]++
		}
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		best := rf.classes[0]
		bestVotes := -1
		for _, class := range rf.classes {
			if v := votes[i][class]; v > bestVotes {
				bestVotes = v
				best = class
			}
		}
		predictions.Set(i, 0, float64(best))
	}
	return predictions, nil
}

// FeatureImportances averages the per-tree importances.
func (rf *RandomForest) FeatureImportances() []float64 {
	if len(rf.trees) == 0 {
		return nil
	}
	out := make([]float64, len(rf.trees[0].featureImportances))
	for _, tree := range rf.trees {
		for i, imp := range tree.featureImportances {
			out[i] += imp
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.trees))
	}
	return out
}
