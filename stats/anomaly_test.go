package stats_test

import (
	"testing"

	"github.com/insightlab/datasight/dataset"
	"github.com/insightlab/datasight/stats"
)

func TestDetectAnomaliesFlagsExtremeRow(t *testing.T) {
	rows := make([]dataset.Row, 0, 21)
	for i := 0; i < 20; i++ {
		rows = append(rows, dataset.Row{"a": 10.0, "b": 5.0})
	}
	// One row far outside both column distributions.
	rows = append(rows, dataset.Row{"a": 1000.0, "b": 500.0})

	ds := dataset.New([]string{"a", "b"}, rows, "test", dataset.OriginFile).InferTypes(0)
	anomalies := stats.DetectAnomalies(ds, 0)

	if len(anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(anomalies))
	}
	if anomalies[0].RowIndex != 20 {
		t.Errorf("expected row 20 flagged, got %d", anomalies[0].RowIndex)
	}
	if anomalies[0].Score <= 3 {
		t.Errorf("expected score above the flag threshold, got %v", anomalies[0].Score)
	}
	if len(anomalies[0].Columns) != 2 {
		t.Errorf("expected both columns to contribute, got %v", anomalies[0].Columns)
	}
}

func TestDetectAnomaliesNoNumericColumns(t *testing.T) {
	rows := []dataset.Row{{"name": "alice"}, {"name": "bob"}}
	ds := dataset.New([]string{"name"}, rows, "test", dataset.OriginFile).InferTypes(0)
	if got := stats.DetectAnomalies(ds, 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestDetectAnomaliesRankedDescending(t *testing.T) {
	rows := make([]dataset.Row, 0, 32)
	for i := 0; i < 30; i++ {
		rows = append(rows, dataset.Row{"a": 10.0, "b": 5.0})
	}
	// Two anomalous rows of different severity.
	rows = append(rows, dataset.Row{"a": 1000.0, "b": 500.0})
	rows = append(rows, dataset.Row{"a": 2000.0, "b": 1000.0})

	ds := dataset.New([]string{"a", "b"}, rows, "test", dataset.OriginFile).InferTypes(0)
	anomalies := stats.DetectAnomalies(ds, 0)

	if len(anomalies) != 2 {
		t.Fatalf("expected 2 anomalies, got %d", len(anomalies))
	}
	if anomalies[0].RowIndex != 31 || anomalies[1].RowIndex != 30 {
		t.Errorf("expected the more extreme row ranked first, got rows %d, %d",
			anomalies[0].RowIndex, anomalies[1].RowIndex)
	}
	if anomalies[0].Score <= anomalies[1].Score {
		t.Errorf("scores not descending: %v then %v", anomalies[0].Score, anomalies[1].Score)
	}
}
