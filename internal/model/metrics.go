package model

import (
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// DecisionThreshold turns probabilities into class predictions.
const DecisionThreshold = 0.5

// ClassReport is one line of the per-class report.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// Metrics summarizes a held-out evaluation.
type Metrics struct {
	Accuracy             float64                `json:"accuracy"`
	ROCAUC               float64                `json:"roc_auc"`
	PrecisionPos         float64                `json:"precision_pos"`
	RecallPos            float64                `json:"recall_pos"`
	F1Pos                float64                `json:"f1_pos"`
	ConfusionMatrix      [2][2]int              `json:"confusion_matrix"`
	ClassificationReport map[string]ClassReport `json:"classification_report"`

	TrainRows  int       `json:"train_rows"`
	TestRows   int       `json:"test_rows"`
	TestGroups int       `json:"test_groups"`
	TrainedAt  time.Time `json:"trained_at"`
}

// Evaluate scores probabilities against labels at DecisionThreshold.
func Evaluate(y []int, proba []float64) Metrics {
	var cm [2][2]int
	for i, label := range y {
		pred := 0
		if proba[i] >= DecisionThreshold {
			pred = 1
		}
		cm[label][pred]++
	}

	m := Metrics{ConfusionMatrix: cm, TestRows: len(y)}
	if len(y) > 0 {
		m.Accuracy = float64(cm[0][0]+cm[1][1]) / float64(len(y))
	}

	neg := classReport(cm[0][0], cm[1][0], cm[0][1])
	pos := classReport(cm[1][1], cm[0][1], cm[1][0])
	m.PrecisionPos, m.RecallPos, m.F1Pos = pos.Precision, pos.Recall, pos.F1

	total := float64(neg.Support + pos.Support)
	macro := ClassReport{
		Precision: (neg.Precision + pos.Precision) / 2,
		Recall:    (neg.Recall + pos.Recall) / 2,
		F1:        (neg.F1 + pos.F1) / 2,
		Support:   neg.Support + pos.Support,
	}
	weighted := ClassReport{Support: neg.Support + pos.Support}
	if total > 0 {
		wn, wp := float64(neg.Support)/total, float64(pos.Support)/total
		weighted.Precision = wn*neg.Precision + wp*pos.Precision
		weighted.Recall = wn*neg.Recall + wp*pos.Recall
		weighted.F1 = wn*neg.F1 + wp*pos.F1
	}
	m.ClassificationReport = map[string]ClassReport{
		"0":            neg,
		"1":            pos,
		"macro avg":    macro,
		"weighted avg": weighted,
	}

	auc, ok := ROCAUC(y, proba)
	if !ok {
		log.Warn().Int("rows", len(y)).Msg("roc auc undefined on a single-class test split, reporting 0")
	}
	m.ROCAUC = auc

	return m
}

// classReport computes precision, recall and F1 for one class from its true
// positives, false positives and false negatives. Zero divisions yield 0.
func classReport(tp, fp, fn int) ClassReport {
	r := ClassReport{Support: tp + fn}
	if tp+fp > 0 {
		r.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		r.Recall = float64(tp) / float64(tp+fn)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}

// ROCAUC is the area under the ROC curve. ok is false when y holds a single class.
func ROCAUC(y []int, proba []float64) (auc float64, ok bool) {
	var pos, neg int
	for _, v := range y {
		if v == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, false
	}

	scores := append([]float64(nil), proba...)
	classes := make([]bool, len(y))
	for i, v := range y {
		classes[i] = v == 1
	}
	stat.SortWeightedLabeled(scores, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), true
}
