// Package trainer fits a baseline logistic regression over feature frames
// and scores it with log loss and Brier score.
package trainer

import (
	"fmt"
	"math"

	"github.com/akarpenko/propline/internal/pkg/models"
)

// Model is a fitted logistic regression.
type Model struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
	Features  []string  `json:"features"`
}

// Options control the gradient descent fit.
type Options struct {
	LearningRate float64
	Iterations   int
	L2           float64
}

// DefaultOptions work for the small frames this pipeline produces.
func DefaultOptions() Options {
	return Options{LearningRate: 0.05, Iterations: 2000, L2: 0.001}
}

// ImputeColumnMeans replaces missing cells with the column mean of the
// present cells, in place. A column with no present cells becomes zero.
func ImputeColumnMeans(x [][]float64) {
	if len(x) == 0 {
		return
	}
	cols := len(x[0])
	for j := 0; j < cols; j++ {
		sum, n := 0.0, 0
		for i := range x {
			if !models.IsMissing(x[i][j]) {
				sum += x[i][j]
				n++
			}
		}
		fill := 0.0
		if n > 0 {
			fill = sum / float64(n)
		}
		for i := range x {
			if models.IsMissing(x[i][j]) {
				x[i][j] = fill
			}
		}
	}
}

// Fit trains the model by batch gradient descent. Rows must be imputed first.
func Fit(x [][]float64, y []int, features []string, opts Options) (Model, error) {
	if len(x) == 0 {
		return Model{}, fmt.Errorf("no training rows")
	}
	if len(x) != len(y) {
		return Model{}, fmt.Errorf("rows/labels mismatch: %d vs %d", len(x), len(y))
	}
	cols := len(x[0])
	for i := range x {
		if len(x[i]) != cols {
			return Model{}, fmt.Errorf("ragged row %d: %d columns, want %d", i, len(x[i]), cols)
		}
		for j, v := range x[i] {
			if models.IsMissing(v) {
				return Model{}, fmt.Errorf("missing cell at row %d column %d", i, j)
			}
		}
	}

	m := Model{Coef: make([]float64, cols), Features: features}
	n := float64(len(x))
	for iter := 0; iter < opts.Iterations; iter++ {
		gradB := 0.0
		gradW := make([]float64, cols)
		for i := range x {
			p := m.Predict(x[i])
			diff := p - float64(y[i])
			gradB += diff
			for j := range gradW {
				gradW[j] += diff * x[i][j]
			}
		}
		m.Intercept -= opts.LearningRate * gradB / n
		for j := range m.Coef {
			m.Coef[j] -= opts.LearningRate * (gradW[j]/n + opts.L2*m.Coef[j])
		}
	}
	return m, nil
}

// Predict returns the probability of the positive class.
func (m Model) Predict(row []float64) float64 {
	z := m.Intercept
	for j, w := range m.Coef {
		z += w * row[j]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// LogLoss is the mean negative log likelihood, with probabilities clamped
// away from 0 and 1.
func LogLoss(y []int, p []float64) float64 {
	if len(y) == 0 {
		return models.Missing()
	}
	const eps = 1e-15
	sum := 0.0
	for i := range y {
		pi := math.Min(math.Max(p[i], eps), 1-eps)
		if y[i] == 1 {
			sum -= math.Log(pi)
		} else {
			sum -= math.Log(1 - pi)
		}
	}
	return sum / float64(len(y))
}

// Brier is the mean squared difference between probability and outcome.
func Brier(y []int, p []float64) float64 {
	if len(y) == 0 {
		return models.Missing()
	}
	sum := 0.0
	for i := range y {
		d := p[i] - float64(y[i])
		sum += d * d
	}
	return sum / float64(len(y))
}
