package ml

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// Default depths: trees inside a forest stay shallow; a standalone tree may
// go deeper.
const (
	DefaultTreeDepth           = 5
	DefaultStandaloneTreeDepth = 8
)

// treeNode is one node of the fitted tree.
type treeNode struct {
	isLeaf       bool
	feature      int
	threshold    float64
	left         *treeNode
	right        *treeNode
	predictClass int
	classCounts  []int
}

// DecisionTree is a binary recursive splitter minimizing weighted Gini
// impurity. At each node every feature and every midpoint between
// consecutive distinct sorted values is scanned as a candidate threshold.
type DecisionTree struct {
	state    *StateManager
	maxDepth int

	root      *treeNode
	classes   []int
	nFeatures int

	featureImportances []float64
}

// DecisionTreeOption is a functional option for NewDecisionTree.
type DecisionTreeOption func(*DecisionTree)

// WithTreeMaxDepth sets the maximum tree depth.
func WithTreeMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTree) {
		dt.maxDepth = depth
	}
}

// NewDecisionTree creates a decision tree classifier with depth 8 by
// default.
func NewDecisionTree(opts ...DecisionTreeOption) *DecisionTree {
	dt := &DecisionTree{
		state:    NewStateManager(),
		maxDepth: DefaultStandaloneTreeDepth,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// Name implements Classifier.
func (dt *DecisionTree) Name() string { return "decision_tree" }

// Params implements Classifier.
func (dt *DecisionTree) Params() map[string]interface{} {
	return map[string]interface{}{"max_depth": dt.maxDepth}
}

// Fit trains the tree.
func (dt *DecisionTree) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return dserrors.NewDimensionError("DecisionTree.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return dserrors.NewValueError("DecisionTree.Fit", "y must be a column vector")
	}
	if nSamples == 0 || nFeatures == 0 {
		return dserrors.NewModelError("DecisionTree.Fit", "empty data", dserrors.ErrEmptyData)
	}

	dt.nFeatures = nFeatures
	dt.extractClasses(y)
	dt.featureImportances = make([]float64, nFeatures)

	yIdx := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		yIdx[i] = dt.classIndex(int(y.At(i, 0)))
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	dt.root = dt.buildNode(X, yIdx, indices, 0)
	dt.normalizeImportances()
	dt.state.SetFitted()
	return nil
}

func (dt *DecisionTree) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	dt.classes = dt.classes[:0]
	for class := range seen {
		dt.classes = append(dt.classes, class)
	}
	sort.Ints(dt.classes)
}

func (dt *DecisionTree) classIndex(label int) int {
	for i, c := range dt.classes {
		if c == label {
			return i
		}
	}
	return 0
}

// buildNode recursively grows the tree over the rows named by indices.
// Recursion stops at max depth, on a pure node, or when no split improves
// the weighted Gini impurity.
func (dt *DecisionTree) buildNode(X mat.Matrix, yIdx, indices []int, depth int) *treeNode {
	counts := make([]int, len(dt.classes))
	for _, i := range indices {
		counts[yIdx[i]]++
	}

	node := &treeNode{
		classCounts:  counts,
		predictClass: majorityClass(counts),
	}

	impurity := gini(counts)
	if depth >= dt.maxDepth || impurity == 0 || len(indices) < 2 {
		node.isLeaf = true
		return node
	}

	feature, threshold, decrease := dt.bestSplit(X, yIdx, indices, impurity)
	if feature < 0 {
		node.isLeaf = true
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if X.At(i, feature) <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		node.isLeaf = true
		return node
	}

	dt.featureImportances[feature] += decrease * float64(len(indices))

	node.feature = feature
	node.threshold = threshold
	node.left = dt.buildNode(X, yIdx, leftIdx, depth+1)
	node.right = dt.buildNode(X, yIdx, rightIdx, depth+1)
	return node
}

// bestSplit scans every feature and every midpoint between consecutive
// distinct sorted values, returning the split with the largest impurity
// decrease. feature is -1 when no split helps.
func (dt *DecisionTree) bestSplit(X mat.Matrix, yIdx, indices []int, parentImpurity float64) (int, float64, float64) {
	_, nFeatures := X.Dims()
	bestFeature := -1
	bestThreshold := 0.0
	bestDecrease := 0.0
	n := float64(len(indices))

	for feature := 0; feature < nFeatures; feature++ {
		sorted := append([]int(nil), indices...)
		sort.SliceStable(sorted, func(a, b int) bool {
			return X.At(sorted[a], feature) < X.At(sorted[b], feature)
		})

		for i := 0; i < len(sorted)-1; i++ {
			v1 := X.At(sorted[i], feature)
			v2 := X.At(sorted[i+1], feature)
			if v1 == v2 {
				continue
			}
			threshold := (v1 + v2) / 2

			leftCounts := make([]int, len(dt.classes))
			rightCounts := make([]int, len(dt.classes))
			nLeft, nRight := 0, 0
			for _, idx := range indices {
				if X.At(idx, feature) <= threshold {
					leftCounts[yIdx[idx]]++
					nLeft++
				} else {
					rightCounts[yIdx[idx]]++
					nRight++
				}
			}
			if nLeft == 0 || nRight == 0 {
				continue
			}

			weighted := (float64(nLeft)*gini(leftCounts) + float64(nRight)*gini(rightCounts)) / n
			decrease := parentImpurity - weighted
			if decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestDecrease
}

// Predict traverses the tree for each sample.
func (dt *DecisionTree) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("DecisionTree", "Predict")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures {
		return nil, dserrors.NewDimensionError("DecisionTree.Predict", dt.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		node := dt.root
		for !node.isLeaf {
			if X.At(i, node.feature) <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		predictions.Set(i, 0, float64(dt.classes[node.predictClass]))
	}
	return predictions, nil
}

// FeatureImportances returns normalized impurity-decrease importances.
func (dt *DecisionTree) FeatureImportances() []float64 {
	out := make([]float64, len(dt.featureImportances))
	copy(out, dt.featureImportances)
	return out
}

func (dt *DecisionTree) normalizeImportances() {
	sum := 0.0
	for _, imp := range dt.featureImportances {
		sum += imp
	}
	if sum > 0 {
		for i := range dt.featureImportances {
			dt.featureImportances[i] /= sum
		}
	}
}

// majorityClass picks the class with the highest count; ties break toward
// the lower class index.
func majorityClass(counts []int) int {
	best := 0
	bestCount := -1
	for i, c := range counts {
		if c > bestCount {
			bestCount = c
			best = i
		}
	}
	return best
}

// gini computes the Gini impurity of a class-count vector.
func gini(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	sumSquared := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		sumSquared += p * p
	}
	return 1 - sumSquared
}
