package insights_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/insights"
	"github.com/insightlab/datasight/profile"
	"github.com/insightlab/datasight/stats"
)

func findContaining(findings []string, substr string) string {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return f
		}
	}
	return ""
}

func TestGenerateQualityTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "excellent"},
		{85, "good"},
		{60, "needs improvement"},
	}
	for _, c := range cases {
		findings := insights.Generate(profile.Report{Score: c.score}, nil, 0)
		require.NotEmpty(t, findings, "score %v", c.score)
		assert.Contains(t, findings[0], c.want, "score %v", c.score)
	}
}

func TestGenerateQualityTierBoundaries(t *testing.T) {
	// 90 is good, not excellent; 80 is good, not needs-improvement.
	findings := insights.Generate(profile.Report{Score: 90}, nil, 0)
	assert.Contains(t, findings[0], "good")

	findings = insights.Generate(profile.Report{Score: 80}, nil, 0)
	assert.Contains(t, findings[0], "good")

	findings = insights.Generate(profile.Report{Score: 79.9}, nil, 0)
	assert.Contains(t, findings[0], "needs improvement")
}

func TestGenerateHighMissingColumns(t *testing.T) {
	summaries := []stats.ColumnSummary{
		{Column: "a", MissingPercent: 50},
		{Column: "b", MissingPercent: 35},
		{Column: "c", MissingPercent: 10},
	}
	findings := insights.Generate(profile.Report{Score: 95}, summaries, 100)

	msg := findContaining(findings, "missing values")
	require.NotEmpty(t, msg)
	assert.Contains(t, msg, "2 column(s)")
}

func TestGenerateOutlierFeatureCount(t *testing.T) {
	summaries := []stats.ColumnSummary{
		{Column: "a", Kind: dataset.Numeric, OutlierCount: 3},
		{Column: "b", Kind: dataset.Numeric, OutlierCount: 0},
		{Column: "c", Kind: dataset.Numeric, OutlierCount: 1},
	}
	findings := insights.Generate(profile.Report{Score: 95}, summaries, 100)

	msg := findContaining(findings, "Outliers detected")
	require.NotEmpty(t, msg)
	assert.Contains(t, msg, "2 feature(s)")
}

func TestGenerateSkewSuggestion(t *testing.T) {
	summaries := []stats.ColumnSummary{
		{Column: "income", Kind: dataset.Numeric, Skewness: 3.1},
		{Column: "age", Kind: dataset.Numeric, Skewness: 0.5},
	}
	findings := insights.Generate(profile.Report{Score: 95}, summaries, 100)

	msg := findContaining(findings, "skewed")
	require.NotEmpty(t, msg)
	assert.Contains(t, msg, "income")
	assert.Contains(t, msg, "right")
	assert.Empty(t, findContaining(findings, `"age"`))
}

func TestGenerateHighCardinality(t *testing.T) {
	summaries := []stats.ColumnSummary{
		{Column: "user_id", Kind: dataset.Categorical, UniqueCount: 90},
		{Column: "country", Kind: dataset.Categorical, UniqueCount: 5},
	}
	findings := insights.Generate(profile.Report{Score: 95}, summaries, 100)

	msg := findContaining(findings, "high cardinality")
	require.NotEmpty(t, msg)
	assert.Contains(t, msg, "user_id")
	assert.NotContains(t, msg, "country")
}

func TestGenerateDuplicateFinding(t *testing.T) {
	findings := insights.Generate(profile.Report{Score: 95, DuplicateRows: 4}, nil, 0)
	msg := findContaining(findings, "duplicate")
	require.NotEmpty(t, msg)
	assert.Contains(t, msg, "4")
}

func TestGenerateOrderStable(t *testing.T) {
	summaries := []stats.ColumnSummary{
		{Column: "x", Kind: dataset.Numeric, Skewness: 5, OutlierCount: 2},
	}
	report := profile.Report{Score: 50, DuplicateRows: 1}

	first := insights.Generate(report, summaries, 100)
	second := insights.Generate(report, summaries, 100)
	assert.Equal(t, first, second)

	// Dataset-level findings precede per-column ones.
	assert.Contains(t, first[0], "quality")
}
