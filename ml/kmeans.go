package ml

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// K-means defaults: Lloyd iteration until centroids move less than the
// tolerance or the iteration cap is hit.
const (
	DefaultClusters = 3
	kmeansMaxIter   = 100
	kmeansTolerance = 0.001
)

// KMeans clusters samples via standard Lloyd iteration. Centroids start
// uniformly at random inside each feature's observed [min, max] range; an
// empty cluster keeps its previous centroid. Used for exploratory
// clustering, not classification scoring.
type KMeans struct {
	state     *StateManager
	nClusters int
	seed      uint64

	centroids [][]float64
	labels    []int
	inertia   float64
	nIter     int
}

// KMeansOption is a functional option for NewKMeans.
type KMeansOption func(*KMeans)

// WithClusters sets the cluster count.
func WithClusters(k int) KMeansOption {
	return func(m *KMeans) {
		m.nClusters = k
	}
}

// WithKMeansSeed seeds centroid initialization.
func WithKMeansSeed(seed uint64) KMeansOption {
	return func(m *KMeans) {
		m.seed = seed
	}
}

// NewKMeans creates a k-means model with 3 clusters by default.
func NewKMeans(opts ...KMeansOption) *KMeans {
	m := &KMeans{
		state:     NewStateManager(),
		nClusters: DefaultClusters,
		seed:      1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name identifies the model in results and logs.
func (m *KMeans) Name() string { return "kmeans" }

// Params reports the hyperparameters used.
func (m *KMeans) Params() map[string]interface{} {
	return map[string]interface{}{
		"clusters": m.nClusters,
		"seed":     m.seed,
	}
}

// Fit runs Lloyd iteration on X. The label matrix is ignored; k-means is
// unsupervised.
func (m *KMeans) Fit(X, _ mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return dserrors.NewModelError("KMeans.Fit", "empty data", dserrors.ErrEmptyData)
	}
	if nSamples < m.nClusters {
		return dserrors.NewValueError("KMeans.Fit", "fewer samples than clusters")
	}

	rng := rand.New(rand.NewPCG(m.seed, m.seed^0xda3e39cb94b95bdb))
	m.centroids = m.initCentroids(X, rng)

	assignments := make([]int, nSamples)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		m.nIter = iter + 1

		for i := 0; i < nSamples; i++ {
			assignments[i] = m.nearestCentroid(X, i)
		}

		moved := m.recomputeCentroids(X, assignments, nFeatures)
		if moved < kmeansTolerance {
			break
		}
	}

	m.labels = assignments
	m.inertia = m.computeInertia(X, assignments)
	m.state.SetFitted()
	return nil
}

// initCentroids draws each centroid coordinate uniformly within the
// feature's observed range.
func (m *KMeans) initCentroids(X mat.Matrix, rng *rand.Rand) [][]float64 {
	nSamples, nFeatures := X.Dims()
	mins := make([]float64, nFeatures)
	maxs := make([]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		mins[j] = X.At(0, j)
		maxs[j] = X.At(0, j)
		for i := 1; i < nSamples; i++ {
			v := X.At(i, j)
			if v < mins[j] {
				mins[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
	}

	centroids := make([][]float64, m.nClusters)
	for k := range centroids {
		centroids[k] = make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			centroids[k][j] = mins[j] + rng.Float64()*(maxs[j]-mins[j])
		}
	}
	return centroids
}

func (m *KMeans) nearestCentroid(X mat.Matrix, row int) int {
	best := 0
	bestDist := math.Inf(1)
	for k, centroid := range m.centroids {
		dist := 0.0
		for j, c := range centroid {
			d := X.At(row, j) - c
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = k
		}
	}
	return best
}

// recomputeCentroids moves each centroid to its cluster mean and returns
// the largest coordinate displacement. Empty clusters keep their previous
// centroid.
func (m *KMeans) recomputeCentroids(X mat.Matrix, assignments []int, nFeatures int) float64 {
	sums := make([][]float64, m.nClusters)
	counts := make([]int, m.nClusters)
	for k := range sums {
		sums[k] = make([]float64, nFeatures)
	}
	for i, k := range assignments {
		counts[k]++
		for j := 0; j < nFeatures; j++ {
			sums[k][j] += X.At(i, j)
		}
	}

	maxMove := 0.0
	for k := range m.centroids {
		if counts[k] == 0 {
			continue
		}
		for j := 0; j < nFeatures; j++ {
			next := sums[k][j] / float64(counts[k])
			if move := math.Abs(next - m.centroids[k][j]); move > maxMove {
				maxMove = move
			}
			m.centroids[k][j] = next
		}
	}
	return maxMove
}

func (m *KMeans) computeInertia(X mat.Matrix, assignments []int) float64 {
	total := 0.0
	for i, k := range assignments {
		for j, c := range m.centroids[k] {
			d := X.At(i, j) - c
			total += d * d
		}
	}
	return total
}

// Predict assigns each sample to its nearest centroid.
func (m *KMeans) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, dserrors.NewNotFittedError("KMeans", "Predict")
	}
	nSamples, _ := X.Dims()
	out := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		out.Set(i, 0, float64(m.nearestCentroid(X, i)))
	}
	return out, nil
}

// Centroids returns a copy of the fitted centroids.
func (m *KMeans) Centroids() [][]float64 {
	out := make([][]float64, len(m.centroids))
	for k, c := range m.centroids {
		out[k] = append([]float64(nil), c...)
	}
	return out
}

// Labels returns the training assignments.
func (m *KMeans) Labels() []int {
	return append([]int(nil), m.labels...)
}

// Inertia returns the within-cluster sum of squared distances.
func (m *KMeans) Inertia() float64 { return m.inertia }

// Iterations returns how many Lloyd iterations ran.
func (m *KMeans) Iterations() int { return m.nIter }
