// Package algorithm describes what the algorithm layer returns for a
// processed dataset.
package algorithm

import "mlprep/domain/core"

// Names of the built-in algorithms, in registration order
const (
	LogisticRegression = "logisticRegression"
	DecisionTree       = "decisionTree"
	KNN                = "knn"
	SVM                = "svm"
	RandomForest       = "randomForest"
)

// DefaultNames lists the built-in algorithms in registration order
var DefaultNames = []string{LogisticRegression, DecisionTree, KNN, SVM, RandomForest}

// Scores are computed from an algorithm's predictions against the label vector.
// Classification problems fill the classification metrics; regression fills MeanSquaredError.
type Scores struct {
	Accuracy         *float64 `json:"accuracy,omitempty"`
	Precision        *float64 `json:"precision,omitempty"`
	Recall           *float64 `json:"recall,omitempty"`
	F1Score          *float64 `json:"f1_score,omitempty"`
	ConfusionMatrix  [][]int  `json:"confusion_matrix,omitempty"`
	MeanSquaredError *float64 `json:"mean_squared_error,omitempty"`
}

// Result is one algorithm's successful outcome
type Result struct {
	AlgorithmName string         `json:"algorithm_name"`
	Predictions   []float64      `json:"predictions"`
	Scores        Scores         `json:"scores"`
	DurationMs    int64          `json:"duration_ms"`
	CompletedAt   core.Timestamp `json:"completed_at"`
}

// Failure records an algorithm that errored, panicked or timed out.
// Failures never abort sibling algorithms.
type Failure struct {
	AlgorithmName string `json:"algorithm_name"`
	Code          string `json:"code"`
	Error         string `json:"error"`
	DurationMs    int64  `json:"duration_ms"`
}
