package stats_test

import (
	"math"
	"testing"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/stats"
)

func TestSummarizeNumericColumn(t *testing.T) {
	rows := []dataset.Row{
		{"v": "1"}, {"v": "2"}, {"v": "3"}, {"v": "4"},
	}
	ds := dataset.New([]string{"v"}, rows, "test", dataset.OriginFile).InferTypes(0)

	summaries := stats.Summarize(ds, 0)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	checks := map[string][2]float64{
		"mean":   {s.Mean, 2.5},
		"median": {s.Median, 2.5},
		"q1":     {s.Q1, 1.75},
		"q3":     {s.Q3, 3.25},
		"iqr":    {s.IQR, 1.5},
		"min":    {s.MinValue, 1},
		"max":    {s.MaxValue, 4},
	}
	for name, pair := range checks {
		if math.Abs(pair[0]-pair[1]) > epsilon {
			t.Errorf("%s: expected %v, got %v", name, pair[1], pair[0])
		}
	}
	if s.OutlierCount != 0 {
		t.Errorf("outliers: expected 0, got %d", s.OutlierCount)
	}
}

func TestSummarizeCategoricalColumn(t *testing.T) {
	rows := []dataset.Row{
		{"city": "NY"}, {"city": "NY"}, {"city": "LA"}, {"city": "LA"},
	}
	ds := dataset.New([]string{"city"}, rows, "test", dataset.OriginFile).InferTypes(0)

	s := stats.Summarize(ds, 0)[0]
	if s.UniqueCount != 2 {
		t.Errorf("unique count: expected 2, got %d", s.UniqueCount)
	}
	// Two equally frequent values carry exactly one bit of entropy.
	if math.Abs(s.Entropy-1.0) > epsilon {
		t.Errorf("entropy: expected 1.0 bit, got %v", s.Entropy)
	}
	if s.TopValue != "NY" || s.TopValueCount != 2 {
		t.Errorf("top value: expected NY x2, got %s x%d", s.TopValue, s.TopValueCount)
	}
}

func TestSummarizeMissingCounts(t *testing.T) {
	rows := []dataset.Row{
		{"age": "25"}, {"age": "30"}, {"age": ""}, {"age": "40"},
	}
	ds := dataset.New([]string{"age"}, rows, "test", dataset.OriginFile).InferTypes(0)

	s := stats.Summarize(ds, 0)[0]
	if s.Missing != 1 {
		t.Errorf("missing: expected 1, got %d", s.Missing)
	}
	if math.Abs(s.MissingPercent-25) > epsilon {
		t.Errorf("missing percent: expected 25, got %v", s.MissingPercent)
	}
	// Statistics cover only the valid values.
	if math.Abs(s.Median-30) > epsilon {
		t.Errorf("median of valid values: expected 30, got %v", s.Median)
	}
}

func TestSummarizeColumnOrder(t *testing.T) {
	rows := []dataset.Row{{"b": "1", "a": "2", "c": "3"}}
	ds := dataset.New([]string{"b", "a", "c"}, rows, "test", dataset.OriginFile).InferTypes(0)

	summaries := stats.Summarize(ds, 0)
	want := []string{"b", "a", "c"}
	for i, s := range summaries {
		if s.Column != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], s.Column)
		}
	}
}

func TestDistributionsShapes(t *testing.T) {
	rows := make([]dataset.Row, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, dataset.Row{"n": float64(i), "c": "x"})
	}
	ds := dataset.New([]string{"n", "c"}, rows, "test", dataset.OriginFile).InferTypes(0)

	dists := stats.Distributions(ds, 0)
	if len(dists) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(dists))
	}

	if len(dists[0].Histogram) == 0 {
		t.Error("numeric column should carry a histogram")
	}
	total := 0
	for _, b := range dists[0].Histogram {
		total += b.Count
	}
	if total != 20 {
		t.Errorf("histogram counts should sum to 20, got %d", total)
	}

	if len(dists[1].TopValues) != 1 || dists[1].TopValues[0].Count != 20 {
		t.Errorf("categorical column top values wrong: %+v", dists[1].TopValues)
	}
}

func TestDistributionsSingleValueHistogram(t *testing.T) {
	rows := []dataset.Row{{"v": 5.0}, {"v": 5.0}, {"v": 5.0}}
	ds := dataset.New([]string{"v"}, rows, "test", dataset.OriginFile).InferTypes(0)

	dists := stats.Distributions(ds, 0)
	if len(dists[0].Histogram) != 1 {
		t.Fatalf("constant column should produce a single bucket, got %d", len(dists[0].Histogram))
	}
	if dists[0].Histogram[0].Count != 3 {
		t.Errorf("bucket count: expected 3, got %d", dists[0].Histogram[0].Count)
	}
}
