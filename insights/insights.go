// Package insights turns profiling and statistics output into an ordered
// list of human-readable findings. The trigger thresholds are fixed
// constants; the message wording is product copy.
package insights

import (
	"fmt"
	"math"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/profile"
	"github.com/insightlab/datasight/stats"
)

// Trigger thresholds for the generated findings.
const (
	QualityExcellent       = 90.0
	QualityGood            = 80.0
	MissingColumnThreshold = 30.0
	SkewThreshold          = 2.0
	HighCardinalityRatio   = 0.5
	minRowsForCardinality  = 20
)

// Generate produces the ordered findings list from a quality report and the
// per-column summaries. Dataset-level findings come first, then per-column
// ones in column order.
func Generate(report profile.Report, summaries []stats.ColumnSummary, totalRows int) []string {
	findings := make([]string, 0, 8)

	switch {
	case report.Score > QualityExcellent:
		findings = append(findings, fmt.Sprintf(
			"Data quality is excellent (score %.1f/100). The dataset is ready for analysis.", report.Score))
	case report.Score >= QualityGood:
		findings = append(findings, fmt.Sprintf(
			"Data quality is good (score %.1f/100). Minor cleaning may improve results.", report.Score))
	default:
		findings = append(findings, fmt.Sprintf(
			"Data quality needs improvement (score %.1f/100). Review missing values and duplicates before modeling.", report.Score))
	}

	if n := countHighMissing(summaries); n > 0 {
		findings = append(findings, fmt.Sprintf(
			"%d column(s) have more than 30%% missing values. Consider dropping them or collecting more data.", n))
	}

	if report.DuplicateRows > 0 {
		findings = append(findings, fmt.Sprintf(
			"Found %d duplicate row(s). Deduplication keeps the first occurrence of each.", report.DuplicateRows))
	}

	if n := countOutlierColumns(summaries); n > 0 {
		findings = append(findings, fmt.Sprintf(
			"Outliers detected in %d feature(s). Capping to the interquartile fences limits their influence.", n))
	}

	for _, s := range summaries {
		if s.Kind == dataset.Numeric && math.Abs(s.Skewness) > SkewThreshold {
			direction := "right"
			if s.Skewness < 0 {
				direction = "left"
			}
			findings = append(findings, fmt.Sprintf(
				"Column %q is heavily %s-skewed (skewness %.2f). A log or power transform may help linear models.",
				s.Column, direction, s.Skewness))
		}
	}

	if totalRows >= minRowsForCardinality {
		for _, s := range summaries {
			if s.Kind == dataset.Numeric || s.UniqueCount == 0 {
				continue
			}
			if float64(s.UniqueCount)/float64(totalRows) > HighCardinalityRatio {
				findings = append(findings, fmt.Sprintf(
					"Column %q has high cardinality (%d distinct values). Hashing or target encoding beats one-hot here.",
					s.Column, s.UniqueCount))
			}
		}
	}

	return findings
}

func countHighMissing(summaries []stats.ColumnSummary) int {
	n := 0
	for _, s := range summaries {
		if s.MissingPercent > MissingColumnThreshold {
			n++
		}
	}
	return n
}

func countOutlierColumns(summaries []stats.ColumnSummary) int {
	n := 0
	for _, s := range summaries {
		if s.Kind == dataset.Numeric && s.OutlierCount > 0 {
			n++
		}
	}
	return n
}
