package optimize

import (
	"math"
)

// Result is the outcome reported by a numerical solver.
type Result struct {
	Success bool      `json:"success" yaml:"success"`
	Status  int       `json:"status" yaml:"status"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	X       []float64 `json:"x" yaml:"x"`
	Fun     float64   `json:"fun" yaml:"fun"`
	Nit     int       `json:"nit" yaml:"nit"`
}

// Objective maps a decision vector to a cost.
type Objective func(x []float64) float64

// Constraints maps a decision vector to its constraint values.
type Constraints func(x []float64) []float64

// TabulatedObjective serves precomputed objective values. Points not in the
// table evaluate to NaN.
func TabulatedObjective(points [][]float64, values []float64) Objective {
	return func(x []float64) float64 {
		i := lookup(points, x)
		if i < 0 || i >= len(values) {
			return math.NaN()
		}
		return values[i]
	}
}

// TabulatedConstraints serves precomputed constraint vectors. Points not in
// the table evaluate to nil.
func TabulatedConstraints(points [][]float64, values [][]float64) Constraints {
	return func(x []float64) []float64 {
		i := lookup(points, x)
		if i < 0 || i >= len(values) {
			return nil
		}
		out := make([]float64, len(values[i]))
		copy(out, values[i])
		return out
	}
}

func lookup(points [][]float64, x []float64) int {
next:
	for i, p := range points {
		if len(p) != len(x) {
			continue
		}
		for j := range p {
			if p[j] != x[j] {
				continue next
			}
		}
		return i
	}
	return -1
}
