// Package evaluation scores algorithm predictions against the encoded label vector.
package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"mlprep/domain/algorithm"
	"mlprep/domain/preprocessing"
)

// Score computes the metrics that fit the classification type.
// Classification predictions are rounded to the nearest class index.
func Score(label preprocessing.LabelInfo, yTrue []int, yPred []float64) (algorithm.Scores, error) {
	if len(yTrue) != len(yPred) {
		return algorithm.Scores{}, fmt.Errorf("got %d predictions for %d rows", len(yPred), len(yTrue))
	}
	if len(yTrue) == 0 {
		return algorithm.Scores{}, fmt.Errorf("no rows to score")
	}

	if label.ClassificationType == preprocessing.ClassificationRegression {
		truth := make([]float64, len(yTrue))
		for i, v := range yTrue {
			truth[i] = float64(v)
		}
		mse := MSE(truth, yPred)
		return algorithm.Scores{MeanSquaredError: &mse}, nil
	}

	pred := RoundPredictions(yPred)
	classes := len(label.UniqueLabels)

	acc := Accuracy(yTrue, pred)
	var prec, rec, f1 float64
	if classes == 2 {
		prec, rec, f1 = PrecisionRecallF1(yTrue, pred)
	} else {
		prec, rec, f1 = MacroPrecisionRecallF1(yTrue, pred, classes)
	}

	return algorithm.Scores{
		Accuracy:        &acc,
		Precision:       &prec,
		Recall:          &rec,
		F1Score:         &f1,
		ConfusionMatrix: ConfusionMatrix(yTrue, pred, classes),
	}, nil
}

// RoundPredictions maps raw predictions to class indices. NaN becomes -1,
// which never matches a class.
func RoundPredictions(yPred []float64) []int {
	out := make([]int, len(yPred))
	for i, p := range yPred {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			out[i] = -1
			continue
		}
		out[i] = int(math.Round(p))
	}
	return out
}

// MSE is the mean squared error
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	d := floats.Distance(yTrue, yPred, 2)
	return d * d / float64(len(yTrue))
}

// Accuracy is the share of exact matches
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// PrecisionRecallF1 treats class 1 as positive (binary labels 0/1)
func PrecisionRecallF1(yTrue, yPred []int) (prec, rec, f1 float64) {
	return classPrecisionRecallF1(yTrue, yPred, 1)
}

// MacroPrecisionRecallF1 averages per-class precision, recall and F1 over classes 0..k-1
func MacroPrecisionRecallF1(yTrue, yPred []int, k int) (prec, rec, f1 float64) {
	if k <= 0 {
		return 0, 0, 0
	}
	for c := 0; c < k; c++ {
		p, r, f := classPrecisionRecallF1(yTrue, yPred, c)
		prec += p
		rec += r
		f1 += f
	}
	n := float64(k)
	return prec / n, rec / n, f1 / n
}

func classPrecisionRecallF1(yTrue, yPred []int, positive int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		switch {
		case yPred[i] == positive && yTrue[i] == positive:
			tp++
		case yPred[i] == positive:
			fp++
		case yTrue[i] == positive:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// ConfusionMatrix counts rows by [true class][predicted class].
// Predictions outside 0..k-1 are left out of the matrix.
func ConfusionMatrix(yTrue, yPred []int, k int) [][]int {
	m := make([][]int, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= k || p < 0 || p >= k {
			continue
		}
		m[t][p]++
	}
	return m
}
