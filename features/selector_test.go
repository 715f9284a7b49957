package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/features"
)

func typed(columns []string, rows []dataset.Row) *dataset.Dataset {
	ds := dataset.New(columns, rows, "test.csv", dataset.OriginFile)
	return ds.InferTypes(0)
}

func TestSelectFewerThanTwoNumericColumns(t *testing.T) {
	rows := []dataset.Row{
		{"n": "1.5", "c": "a"},
		{"n": "2.5", "c": "b"},
		{"n": "3.5", "c": "c"},
	}
	ds := typed([]string{"n", "c"}, rows)

	sel := features.Select(ds, 0, 0)

	// One numeric column carries no discriminating signal: every column
	// scores 1.0 and no correlation matrix is built.
	for _, s := range sel.Scores {
		assert.Equal(t, 1.0, s.Value, "column %s", s.Column)
	}
	assert.Empty(t, sel.Correlations.Columns)
}

func TestSelectScoresClampedAndRanked(t *testing.T) {
	rows := []dataset.Row{
		{"x": "0.1", "y": "100", "c": "a"},
		{"x": "0.2", "y": "200", "c": "a"},
		{"x": "0.3", "y": "300", "c": "a"},
		{"x": "0.4", "y": "400", "c": "a"},
	}
	ds := typed([]string{"x", "y", "c"}, rows)

	sel := features.Select(ds, 0, 0)

	require.Len(t, sel.Scores, 3)
	for i, s := range sel.Scores {
		assert.GreaterOrEqual(t, s.Value, 0.0)
		assert.LessOrEqual(t, s.Value, 1.0)
		assert.Equal(t, i+1, s.Rank)
	}
	for i := 1; i < len(sel.Scores); i++ {
		assert.GreaterOrEqual(t, sel.Scores[i-1].Value, sel.Scores[i].Value)
	}

	// y's large variance clamps to 1.0 and tops the ranking; x's tiny
	// variance (0.0125) lands below c's 0.25 uniqueness.
	assert.Equal(t, "y", sel.Scores[0].Column)
	assert.Equal(t, "x", sel.Scores[len(sel.Scores)-1].Column)
}

func TestSelectTopKBounded(t *testing.T) {
	rows := []dataset.Row{
		{"a": "1", "b": "2"},
		{"a": "3", "b": "4"},
	}
	ds := typed([]string{"a", "b"}, rows)

	sel := features.Select(ds, 5, 0)
	assert.Len(t, sel.Selected, 2)

	sel = features.Select(ds, 1, 0)
	assert.Len(t, sel.Selected, 1)
}

func TestSelectStableTieOrder(t *testing.T) {
	// Identical columns tie; source order must be preserved.
	rows := []dataset.Row{
		{"p": "1", "q": "1"},
		{"p": "2", "q": "2"},
		{"p": "3", "q": "3"},
	}
	ds := typed([]string{"p", "q"}, rows)

	sel := features.Select(ds, 0, 0)
	require.Len(t, sel.Scores, 2)
	assert.Equal(t, "p", sel.Scores[0].Column)
	assert.Equal(t, "q", sel.Scores[1].Column)
}
