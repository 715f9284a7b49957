package ml

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ConfusionMatrix holds binary classification counts. The positive class is
// label 1.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Metrics carries the evaluation results for one model. All ratios use the
// zero-safe convention: 0/0 yields 0, never NaN.
type Metrics struct {
	Accuracy  float64         `json:"accuracy"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1"`
	AUC       float64         `json:"auc"`
	Confusion ConfusionMatrix `json:"confusion_matrix"`
}

// Evaluate computes binary classification metrics from true and predicted
// label columns.
func Evaluate(yTrue, yPred mat.Matrix) Metrics {
	n, _ := yTrue.Dims()
	var cm ConfusionMatrix
	for i := 0; i < n; i++ {
		actual := yTrue.At(i, 0) != 0
		predicted := yPred.At(i, 0) != 0
		switch {
		case actual && predicted:
			cm.TruePositives++
		case !actual && predicted:
			cm.FalsePositives++
		case !actual && !predicted:
			cm.TrueNegatives++
		default:
			cm.FalseNegatives++
		}
	}

	m := Metrics{Confusion: cm}
	m.Accuracy = safeRatio(cm.TruePositives+cm.TrueNegatives, n)
	m.Precision = safeRatio(cm.TruePositives, cm.TruePositives+cm.FalsePositives)
	m.Recall = safeRatio(cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// AUC computes the area under the ROC curve from binary labels and
// predicted scores via the trapezoidal rule. A single-class label vector
// yields 0.5, the random-classifier default. Used as a ROC-AUC proxy for
// models that expose probabilities; models without scores fall back to
// their accuracy.
func AUC(yTrue, scores *mat.VecDense) float64 {
	n := yTrue.Len()
	if n == 0 || n != scores.Len() {
		return 0.5
	}

	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return 0.5
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{score: scores.AtVec(i), label: yTrue.AtVec(i)}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	tprs := []float64{0}
	fprs := []float64{0}
	tp, fp := 0.0, 0.0
	prev := pairs[0].score + 1
	for _, p := range pairs {
		if p.score != prev {
			tprs = append(tprs, tp/totalPos)
			fprs = append(fprs, fp/totalNeg)
			prev = p.score
		}
		if p.label == 1 {
			tp++
		} else {
			fp++
		}
	}
	tprs = append(tprs, 1)
	fprs = append(fprs, 1)

	auc := 0.0
	for i := 1; i < len(fprs); i++ {
		width := fprs[i] - fprs[i-1]
		height := (tprs[i] + tprs[i-1]) / 2
		auc += width * height
	}
	return auc
}
