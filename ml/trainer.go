package ml

import (
	"context"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/datasight/dataset"
	dserrors "github.com/insightlab/datasight/pkg/errors"
	"github.com/insightlab/datasight/pkg/log"
)

// DefaultSplitRatio is the ordered train fraction; the first 80% of rows
// train and the remainder evaluates. No shuffling, so results are
// deterministic for a given dataset.
const DefaultSplitRatio = 0.8

// ModelResult reports the evaluation of one trained model on the held-out
// split.
type ModelResult struct {
	Name               string                 `json:"name"`
	Algorithm          string                 `json:"algorithm"`
	Hyperparameters    map[string]interface{} `json:"hyperparameters"`
	Accuracy           float64                `json:"accuracy"`
	Precision          float64                `json:"precision"`
	Recall             float64                `json:"recall"`
	F1                 float64                `json:"f1"`
	AUC                float64                `json:"auc"`
	Confusion          ConfusionMatrix        `json:"confusion_matrix"`
	FeatureImportances map[string]float64     `json:"feature_importances,omitempty"`

	// Predictions holds the raw class labels predicted for the held-out
	// split, in row order.
	Predictions []float64 `json:"predictions"`
	TrainingTime       time.Duration          `json:"training_time"`
	Recommended        bool                   `json:"recommended"`
	SyntheticLabel     bool                   `json:"synthetic_label"`
}

// ClusteringResult reports the exploratory k-means run.
type ClusteringResult struct {
	Clusters   int         `json:"clusters"`
	Sizes      []int       `json:"sizes"`
	Centroids  [][]float64 `json:"centroids"`
	Inertia    float64     `json:"inertia"`
	Iterations int         `json:"iterations"`
}

// TrainerConfig controls model training. Zero values fall back to the
// documented defaults.
type TrainerConfig struct {
	// LabelColumn selects the target. When empty, an alternating synthetic
	// label is generated and every result is marked SyntheticLabel.
	LabelColumn string

	SplitRatio   float64
	TreeDepth    int
	ForestSize   int
	ForestDepth  int
	LearningRate float64
	Iterations   int
	Clusters     int
	Seed         uint64
}

func (c *TrainerConfig) applyDefaults() {
	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		c.SplitRatio = DefaultSplitRatio
	}
	if c.TreeDepth <= 0 {
		c.TreeDepth = DefaultStandaloneTreeDepth
	}
	if c.ForestSize <= 0 {
		c.ForestSize = DefaultForestSize
	}
	if c.ForestDepth <= 0 {
		c.ForestDepth = DefaultTreeDepth
	}
	if c.LearningRate <= 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Clusters <= 0 {
		c.Clusters = DefaultClusters
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Trainer runs the full supervised benchmark plus an exploratory
// clustering pass over a dataset's numeric features.
type Trainer struct {
	cfg    TrainerConfig
	logger log.Logger
}

// NewTrainer creates a trainer; zero-valued config fields take defaults.
func NewTrainer(cfg TrainerConfig) *Trainer {
	cfg.applyDefaults()
	return &Trainer{
		cfg:    cfg,
		logger: log.GetLoggerWithName("ml.trainer"),
	}
}

// Run preprocesses the dataset, splits it in order, trains each candidate
// model, and returns results sorted by accuracy descending with exactly
// one model marked Recommended. A model that fails to train is logged and
// dropped rather than failing the run. A dataset without numeric feature
// columns yields an empty result list.
func (t *Trainer) Run(ctx context.Context, ds *dataset.Dataset) ([]ModelResult, *ClusteringResult, error) {
	X, featureNames, y, synthetic, err := t.Preprocess(ds)
	if err != nil {
		return nil, nil, err
	}
	if len(featureNames) == 0 {
		t.logger.Warn("no numeric features, skipping model training",
			log.DatasetKey, ds.Metadata.Source)
		return []ModelResult{}, nil, nil
	}

	trainX, trainY, testX, testY := t.Split(X, y)
	trainRows, _ := trainX.Dims()
	testRows, _ := testX.Dims()
	if trainRows == 0 || testRows == 0 {
		t.logger.Warn("too few rows to split, skipping model training",
			log.RowsKey, trainRows+testRows)
		return []ModelResult{}, nil, nil
	}

	results := make([]ModelResult, 0, 3)
	for _, candidate := range t.candidates() {
		if err := ctx.Err(); err != nil {
			return nil, nil, dserrors.Wrap(err, "training cancelled")
		}

		result, err := t.trainOne(candidate, trainX, trainY, testX, testY, featureNames)
		if err != nil {
			t.logger.Error("model training failed, dropping from results",
				log.ModelNameKey, candidate.Name(),
				"error", err)
			continue
		}
		result.SyntheticLabel = synthetic
		results = append(results, result)
	}

	aggregate(results)

	var clustering *ClusteringResult
	if err := ctx.Err(); err != nil {
		return nil, nil, dserrors.Wrap(err, "training cancelled")
	}
	clustering, err = t.cluster(X)
	if err != nil {
		t.logger.Error("clustering failed, dropping from results",
			log.ModelNameKey, "kmeans",
			"error", err)
		clustering = nil
	}

	return results, clustering, nil
}

// Preprocess extracts numeric feature columns into a standardized design
// matrix and resolves the label vector. Missing or non-numeric cells in a
// numeric column become 0 before standardization.
func (t *Trainer) Preprocess(ds *dataset.Dataset) (mat.Matrix, []string, *mat.Dense, bool, error) {
	featureNames := make([]string, 0, len(ds.Columns))
	for _, col := range ds.NumericColumns() {
		if col == t.cfg.LabelColumn {
			continue
		}
		featureNames = append(featureNames, col)
	}

	nRows := len(ds.Rows)
	if len(featureNames) == 0 || nRows == 0 {
		return nil, nil, nil, false, nil
	}

	raw := mat.NewDense(nRows, len(featureNames), nil)
	for i, row := range ds.Rows {
		for j, col := range featureNames {
			if v, ok := dataset.AsNumber(row[col]); ok {
				raw.Set(i, j, v)
			}
		}
	}

	scaler := NewStandardScaler()
	X, err := scaler.FitTransform(raw)
	if err != nil {
		return nil, nil, nil, false, err
	}

	y, synthetic, err := t.labels(ds, nRows)
	if err != nil {
		return nil, nil, nil, false, err
	}

	t.logger.Info("preprocessed training data",
		log.RowsKey, nRows,
		log.FeaturesKey, len(featureNames),
		"synthetic_label", synthetic)
	return X, featureNames, y, synthetic, nil
}

// labels resolves the configured label column or generates the alternating
// synthetic label when none is configured.
func (t *Trainer) labels(ds *dataset.Dataset, nRows int) (*mat.Dense, bool, error) {
	y := mat.NewDense(nRows, 1, nil)
	if t.cfg.LabelColumn == "" {
		for i := 0; i < nRows; i++ {
			y.Set(i, 0, float64(i%2))
		}
		return y, true, nil
	}

	found := false
	for _, col := range ds.Columns {
		if col == t.cfg.LabelColumn {
			found = true
			break
		}
	}
	if !found {
		return nil, false, dserrors.NewValidationError("label_column", "column not present in dataset", t.cfg.LabelColumn)
	}

	for i, row := range ds.Rows {
		v := row[t.cfg.LabelColumn]
		if num, ok := dataset.AsNumber(v); ok {
			if num != 0 {
				y.Set(i, 0, 1)
			}
			continue
		}
		if b, ok := dataset.AsBool(v); ok && b {
			y.Set(i, 0, 1)
		}
	}
	return y, false, nil
}

// Split divides rows in order: the first SplitRatio fraction trains, the
// rest evaluates.
func (t *Trainer) Split(X mat.Matrix, y *mat.Dense) (trainX, trainY, testX, testY mat.Matrix) {
	nRows, nCols := X.Dims()
	cut := int(float64(nRows) * t.cfg.SplitRatio)
	if cut < 1 {
		cut = 1
	}
	if cut >= nRows {
		cut = nRows - 1
	}
	if cut < 1 {
		return mat.NewDense(0, nCols, nil), mat.NewDense(0, 1, nil),
			mat.NewDense(0, nCols, nil), mat.NewDense(0, 1, nil)
	}

	d := mat.DenseCopyOf(X)
	return d.Slice(0, cut, 0, nCols), y.Slice(0, cut, 0, 1),
		d.Slice(cut, nRows, 0, nCols), y.Slice(cut, nRows, 0, 1)
}

type candidate struct {
	Classifier
	algorithm   string
	importances func() []float64
	proba       func(mat.Matrix) (*mat.VecDense, error)
}

func (t *Trainer) candidates() []candidate {
	tree := NewDecisionTree(WithTreeMaxDepth(t.cfg.TreeDepth))
	forest := NewRandomForest(
		WithForestSize(t.cfg.ForestSize),
		WithForestMaxDepth(t.cfg.ForestDepth),
		WithForestSeed(t.cfg.Seed),
	)
	logreg := NewLogisticRegression(
		WithLearningRate(t.cfg.LearningRate),
		WithIterations(t.cfg.Iterations),
	)
	return []candidate{
		{Classifier: tree, algorithm: "CART (Gini)", importances: tree.FeatureImportances},
		{Classifier: forest, algorithm: "bagged CART", importances: forest.FeatureImportances},
		{Classifier: logreg, algorithm: "batch gradient descent", importances: logreg.FeatureImportances, proba: logreg.PredictProba},
	}
}

func (t *Trainer) trainOne(c candidate, trainX, trainY, testX, testY mat.Matrix, featureNames []string) (ModelResult, error) {
	start := time.Now()
	if err := c.Fit(trainX, trainY); err != nil {
		return ModelResult{}, err
	}
	elapsed := time.Since(start)

	preds, err := c.Predict(testX)
	if err != nil {
		return ModelResult{}, err
	}
	m := Evaluate(testY, preds)

	nPreds, _ := preds.Dims()
	predictions := make([]float64, nPreds)
	for i := 0; i < nPreds; i++ {
		predictions[i] = preds.At(i, 0)
	}

	// Models without probability scores fall back to accuracy as their
	// AUC stand-in so the field stays comparable across the result list.
	m.AUC = m.Accuracy
	if c.proba != nil {
		scores, err := c.proba(testX)
		if err != nil {
			return ModelResult{}, err
		}
		nTest, _ := testY.Dims()
		truth := mat.NewVecDense(nTest, nil)
		for i := 0; i < nTest; i++ {
			truth.SetVec(i, testY.At(i, 0))
		}
		m.AUC = AUC(truth, scores)
	}

	result := ModelResult{
		Name:            c.Name(),
		Algorithm:       c.algorithm,
		Hyperparameters: c.Params(),
		Accuracy:        m.Accuracy,
		Precision:       m.Precision,
		Recall:          m.Recall,
		F1:              m.F1,
		AUC:             m.AUC,
		Confusion:       m.Confusion,
		Predictions:     predictions,
		TrainingTime:    elapsed,
	}
	if c.importances != nil {
		if imps := c.importances(); len(imps) == len(featureNames) {
			result.FeatureImportances = make(map[string]float64, len(imps))
			for i, name := range featureNames {
				result.FeatureImportances[name] = imps[i]
			}
		}
	}

	t.logger.Info("model trained",
		log.ModelNameKey, result.Name,
		"accuracy", result.Accuracy,
		log.DurationKey, elapsed)
	return result, nil
}

// aggregate sorts results by accuracy descending and marks exactly one as
// recommended. Ties keep the earlier-trained model first and recommended.
func aggregate(results []ModelResult) {
	if len(results) == 0 {
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Accuracy > results[j].Accuracy
	})
	for i := range results {
		results[i].Recommended = i == 0
	}
}

func (t *Trainer) cluster(X mat.Matrix) (*ClusteringResult, error) {
	nRows, _ := X.Dims()
	if nRows < t.cfg.Clusters {
		return nil, nil
	}

	km := NewKMeans(WithClusters(t.cfg.Clusters), WithKMeansSeed(t.cfg.Seed))
	if err := km.Fit(X, nil); err != nil {
		return nil, err
	}

	sizes := make([]int, t.cfg.Clusters)
	for _, label := range km.Labels() {
		sizes[label]++
	}
	return &ClusteringResult{
		Clusters:   t.cfg.Clusters,
		Sizes:      sizes,
		Centroids:  km.Centroids(),
		Inertia:    km.Inertia(),
		Iterations: km.Iterations(),
	}, nil
}
