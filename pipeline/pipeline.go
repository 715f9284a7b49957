// Package pipeline orchestrates the full analysis run: type inference,
// quality profiling, cleaning, statistics, feature selection, model
// training, and insight generation, producing a single AnalysisResults
// aggregate.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/insightlab/datasight/clean"
	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/features"
	"github.com/insightlab/datasight/insights"
	"github.com/insightlab/datasight/ml"
	dserrors "github.com/insightlab/datasight/pkg/errors"
	"github.com/insightlab/datasight/pkg/log"
	"github.com/insightlab/datasight/profile"
	"github.com/insightlab/datasight/stats"
)

// Config holds every tunable of a pipeline run. Zero values take the
// documented defaults.
type Config struct {
	// SampleSize caps the rows scanned per column during type inference.
	SampleSize int

	// Cleaning step toggles.
	Cleaning clean.Options

	// StatsSampleRows caps the rows scanned by the statistics, correlation,
	// distribution, and anomaly passes. 0 means the default cap.
	StatsSampleRows int

	// TopK bounds the selected feature list.
	TopK int

	// Training settings, passed through to the model trainer.
	LabelColumn  string
	SplitRatio   float64
	TreeDepth    int
	ForestSize   int
	ForestDepth  int
	LearningRate float64
	Iterations   int
	Clusters     int
	Seed         uint64
}

// DefaultStatsSampleRows bounds the statistics scans on very large inputs.
const DefaultStatsSampleRows = 50000

// DefaultConfig returns a Config with every stage enabled and the
// documented defaults filled in.
func DefaultConfig() Config {
	return Config{
		SampleSize:      dataset.DefaultSampleSize,
		Cleaning:        clean.DefaultOptions(),
		StatsSampleRows: DefaultStatsSampleRows,
		TopK:            features.DefaultTopK,
		SplitRatio:      ml.DefaultSplitRatio,
		TreeDepth:       ml.DefaultStandaloneTreeDepth,
		ForestSize:      ml.DefaultForestSize,
		ForestDepth:     ml.DefaultTreeDepth,
		LearningRate:    ml.DefaultLearningRate,
		Iterations:      ml.DefaultIterations,
		Clusters:        ml.DefaultClusters,
		Seed:            1,
	}
}

func (c *Config) applyDefaults() {
	if c.SampleSize <= 0 {
		c.SampleSize = dataset.DefaultSampleSize
	}
	if c.StatsSampleRows <= 0 {
		c.StatsSampleRows = DefaultStatsSampleRows
	}
	if c.TopK <= 0 {
		c.TopK = features.DefaultTopK
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// AnalysisResults is the aggregate returned to the presentation and export
// layers. Every field is a value computed from an immutable snapshot of the
// cleaned dataset; callers own the result outright.
type AnalysisResults struct {
	Dataset *dataset.Dataset `json:"-"`

	Summaries []stats.ColumnSummary `json:"summaries"`

	// Correlations is the pairwise-complete Pearson matrix over numeric
	// columns. PartialCorrelations is approximated by the same plain
	// Pearson matrix rather than conditioning on the remaining variables.
	Correlations        stats.CorrelationMatrix `json:"correlations"`
	PartialCorrelations stats.CorrelationMatrix `json:"partial_correlations"`

	Distributions []stats.Distribution `json:"distributions"`
	Anomalies     []stats.RowAnomaly   `json:"anomalies"`

	// Outliers names the columns whose raw values were flagged before
	// cleaning, with per-column counts. Capping may have clamped them in the
	// cleaned snapshot the other fields are computed from.
	Outliers []profile.ColumnOutliers `json:"outliers"`

	Quality         profile.Report       `json:"quality"`
	Features        features.Selection   `json:"features"`
	Models          []ml.ModelResult     `json:"models"`
	Clustering      *ml.ClusteringResult `json:"clustering,omitempty"`
	Recommendations []string             `json:"recommendations"`

	Transformations []clean.Transformation `json:"transformations"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Pipeline runs the analysis stages in order against one dataset per
// invocation. It carries no state between runs.
type Pipeline struct {
	cfg    Config
	logger log.Logger
}

// New creates a pipeline; zero-valued config fields take defaults.
func New(cfg Config) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		cfg:    cfg,
		logger: log.GetLoggerWithName("pipeline"),
	}
}

// Run executes the full pipeline on ds and returns the aggregate results.
// The input dataset is not modified; every stage works on the cleaned
// clone. Cancellation is checked between stages.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (*AnalysisResults, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, dserrors.NewValueError("pipeline.Run", "dataset has no rows")
	}
	started := time.Now()
	p.logger.Info("pipeline run starting",
		log.DatasetKey, ds.Metadata.Source,
		log.RowsKey, len(ds.Rows),
		log.ColumnsKey, len(ds.Columns))

	typed := ds.InferTypes(p.cfg.SampleSize)
	if err := ctx.Err(); err != nil {
		return nil, dserrors.Wrap(err, "cancelled after type inference")
	}

	report := profile.Profile(typed)
	if err := ctx.Err(); err != nil {
		return nil, dserrors.Wrap(err, "cancelled after profiling")
	}

	cleaned := clean.Clean(typed, p.cfg.Cleaning)
	report.Apply(cleaned.Dataset)
	if err := ctx.Err(); err != nil {
		return nil, dserrors.Wrap(err, "cancelled after cleaning")
	}

	results := &AnalysisResults{
		Dataset:         cleaned.Dataset,
		Quality:         report,
		Outliers:        report.OutlierColumns,
		Transformations: cleaned.Log,
		StartedAt:       started,
	}

	// Summarization and feature selection read the same immutable snapshot
	// and can run side by side.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results.Summaries = stats.Summarize(cleaned.Dataset, p.cfg.StatsSampleRows)
		results.Correlations = stats.Correlations(cleaned.Dataset, p.cfg.StatsSampleRows)
		results.PartialCorrelations = results.Correlations
		results.Distributions = stats.Distributions(cleaned.Dataset, p.cfg.StatsSampleRows)
		results.Anomalies = stats.DetectAnomalies(cleaned.Dataset, p.cfg.StatsSampleRows)
		return gctx.Err()
	})
	g.Go(func() error {
		results.Features = features.Select(cleaned.Dataset, p.cfg.TopK, p.cfg.StatsSampleRows)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, dserrors.Wrap(err, "cancelled during statistics")
	}

	trainer := ml.NewTrainer(ml.TrainerConfig{
		LabelColumn:  p.cfg.LabelColumn,
		SplitRatio:   p.cfg.SplitRatio,
		TreeDepth:    p.cfg.TreeDepth,
		ForestSize:   p.cfg.ForestSize,
		ForestDepth:  p.cfg.ForestDepth,
		LearningRate: p.cfg.LearningRate,
		Iterations:   p.cfg.Iterations,
		Clusters:     p.cfg.Clusters,
		Seed:         p.cfg.Seed,
	})
	models, clustering, err := trainer.Run(ctx, cleaned.Dataset)
	if err != nil {
		return nil, dserrors.Wrap(err, "model training")
	}
	results.Models = models
	results.Clustering = clustering

	results.Recommendations = insights.Generate(report, results.Summaries, len(cleaned.Dataset.Rows))
	results.Elapsed = time.Since(started)

	p.logger.Info("pipeline run finished",
		log.DatasetKey, ds.Metadata.Source,
		log.RowsKey, len(cleaned.Dataset.Rows),
		"models", len(results.Models),
		log.DurationKey, results.Elapsed)
	return results, nil
}
