// Package features scores and ranks columns for model training.
//
// Numeric columns score variance x uniqueness ratio; categorical columns
// score their uniqueness ratio alone. Scores are clamped to [0,1] and the
// ranking is stable, so ties keep source column order.
package features

import (
	"sort"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/pkg/log"
	"github.com/insightlab/datasight/stats"
)

// DefaultTopK caps the selected feature set fed to model training.
const DefaultTopK = 10

// Score is one column's importance.
type Score struct {
	Column string  `json:"column"`
	Value  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

// Selection is the feature selector's output.
type Selection struct {
	Scores       []Score                 `json:"scores"`
	Selected     []string                `json:"selected"`
	Correlations stats.CorrelationMatrix `json:"correlations"`
}

// Select scores every column of a cleaned dataset and picks the top
// min(topK, column count) as the default feature set. With fewer than two
// numeric columns there is no discriminating signal: every column scores
// 1.0 and the correlation matrix is empty.
func Select(ds *dataset.Dataset, topK int, maxCorrRows int) Selection {
	if topK <= 0 {
		topK = DefaultTopK
	}

	numericCols := ds.NumericColumns()
	sel := Selection{}

	if len(numericCols) >= 2 {
		sel.Correlations = stats.Correlations(ds, maxCorrRows)
	}

	scores := make([]Score, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		value := 1.0
		if len(numericCols) >= 2 {
			value = scoreColumn(ds, col)
		}
		scores = append(scores, Score{Column: col, Value: value})
	}

	// Stable sort: ties keep source column order.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Value > scores[j].Value })
	for i := range scores {
		scores[i].Rank = i + 1
	}
	sel.Scores = scores

	k := topK
	if k > len(scores) {
		k = len(scores)
	}
	for _, s := range scores[:k] {
		sel.Selected = append(sel.Selected, s.Column)
	}

	log.GetLoggerWithName("features").Info("features ranked",
		log.ColumnsKey, len(ds.Columns),
		log.FeaturesKey, len(sel.Selected),
	)
	return sel
}

func scoreColumn(ds *dataset.Dataset, col string) float64 {
	var numbers []float64
	unique := make(map[string]struct{})
	total := 0
	for _, row := range ds.Rows {
		v := row[col]
		if dataset.IsMissing(v) {
			continue
		}
		total++
		unique[dataset.CellString(v)] = struct{}{}
		if ds.Types[col] == dataset.Numeric {
			if f, ok := dataset.AsNumber(v); ok {
				numbers = append(numbers, f)
			}
		}
	}
	if total == 0 {
		return 0
	}

	uniqueness := float64(len(unique)) / float64(total)
	score := uniqueness
	if ds.Types[col] == dataset.Numeric {
		score = stats.PopulationVariance(numbers) * uniqueness
	}
	return clamp01(score)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
