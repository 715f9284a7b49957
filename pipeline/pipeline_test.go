package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/pipeline"
)

func sampleDataset() *dataset.Dataset {
	rows := []dataset.Row{
		{"age": "25", "income": "50000", "city": "NY"},
		{"age": "30", "income": "60000", "city": "NY"},
		{"age": "", "income": "55000", "city": "LA"},
		{"age": "40", "income": "80000", "city": "LA"},
		{"age": "35", "income": "70000", "city": "SF"},
		{"age": "28", "income": "52000", "city": "NY"},
		{"age": "45", "income": "90000", "city": "SF"},
		{"age": "33", "income": "65000", "city": "LA"},
		{"age": "38", "income": "75000", "city": "NY"},
		{"age": "29", "income": "58000", "city": "SF"},
	}
	return dataset.New([]string{"age", "income", "city"}, rows, "people.csv", dataset.OriginFile)
}

func TestPipelineRunEndToEnd(t *testing.T) {
	p := pipeline.New(pipeline.DefaultConfig())

	results, err := p.Run(context.Background(), sampleDataset())
	require.NoError(t, err)
	require.NotNil(t, results)

	// Every stage must have produced output.
	assert.Len(t, results.Summaries, 3)
	assert.ElementsMatch(t, []string{"age", "income"}, results.Correlations.Columns)
	assert.Len(t, results.Distributions, 3)
	assert.NotEmpty(t, results.Features.Scores)
	assert.NotEmpty(t, results.Recommendations)
	assert.NotEmpty(t, results.Transformations)

	// The missing age cell was imputed before statistics ran.
	for _, s := range results.Summaries {
		if s.Column == "age" {
			assert.Zero(t, s.Missing)
		}
	}

	// The quality report reflects the pre-cleaning snapshot.
	assert.Equal(t, 1, results.Quality.MissingCells)

	// Partial correlations are approximated by the plain Pearson matrix.
	assert.Equal(t, results.Correlations, results.PartialCorrelations)

	// Exactly one recommended model.
	recommended := 0
	for _, m := range results.Models {
		if m.Recommended {
			recommended++
		}
	}
	assert.Equal(t, 1, recommended)
	assert.NotNil(t, results.Clustering)
}

func TestPipelineOutlierList(t *testing.T) {
	// One extreme income value: the outlier list must name the column even
	// though capping clamps the value in the cleaned snapshot.
	rows := make([]dataset.Row, 0, 21)
	for i := 1; i <= 20; i++ {
		rows = append(rows, dataset.Row{"income": float64(40000 + i*1000)})
	}
	rows = append(rows, dataset.Row{"income": 9000000.0})
	ds := dataset.New([]string{"income"}, rows, "salaries.csv", dataset.OriginFile)

	p := pipeline.New(pipeline.DefaultConfig())
	results, err := p.Run(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, results.Outliers, 1)
	assert.Equal(t, "income", results.Outliers[0].Column)
	assert.Equal(t, 1, results.Outliers[0].Count)
	assert.Equal(t, results.Quality.OutlierColumns, results.Outliers)
}

func TestPipelineRunEmptyDataset(t *testing.T) {
	p := pipeline.New(pipeline.DefaultConfig())

	_, err := p.Run(context.Background(), dataset.New([]string{"a"}, nil, "empty", dataset.OriginFile))
	require.Error(t, err)

	_, err = p.Run(context.Background(), nil)
	require.Error(t, err)
}

func TestPipelineRunCancelled(t *testing.T) {
	p := pipeline.New(pipeline.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, sampleDataset())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	ds := sampleDataset()
	p := pipeline.New(pipeline.DefaultConfig())

	_, err := p.Run(context.Background(), ds)
	require.NoError(t, err)

	// The input snapshot keeps its raw strings and missing marker.
	assert.Equal(t, "", ds.Rows[2]["age"])
	assert.Equal(t, "25", ds.Rows[0]["age"])
	assert.Nil(t, ds.Types)
}

func TestPipelineReproducible(t *testing.T) {
	p := pipeline.New(pipeline.DefaultConfig())

	first, err := p.Run(context.Background(), sampleDataset())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), sampleDataset())
	require.NoError(t, err)

	require.Equal(t, len(first.Models), len(second.Models))
	for i := range first.Models {
		assert.Equal(t, first.Models[i].Name, second.Models[i].Name)
		assert.Equal(t, first.Models[i].Accuracy, second.Models[i].Accuracy)
	}
	assert.Equal(t, first.Quality, second.Quality)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}
