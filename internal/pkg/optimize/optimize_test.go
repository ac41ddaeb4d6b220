package optimize

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

var points = [][]float64{
	{1.02, 1.02, 1.02, 300, 100},
	{1.05, 1.05, 1.05, 0, 0},
}

func TestTabulatedObjective(t *testing.T) {
	obj := TabulatedObjective(points, []float64{3.4, 3.2})
	assert.Equal(t, obj([]float64{1.05, 1.05, 1.05, 0, 0}), 3.2)
	assert.Assert(t, math.IsNaN(obj([]float64{1, 1, 1, 0, 0})))
	assert.Assert(t, math.IsNaN(obj([]float64{1.05})))
}

func TestTabulatedObjectiveShortTable(t *testing.T) {
	obj := TabulatedObjective(points, []float64{3.4})
	assert.Assert(t, math.IsNaN(obj(points[1])))
}

func TestTabulatedConstraints(t *testing.T) {
	cons := TabulatedConstraints(points, [][]float64{{1, 2}, {3, 4}})
	got := cons(points[0])
	assert.DeepEqual(t, got, []float64{1, 2})

	got[0] = 99
	assert.DeepEqual(t, cons(points[0]), []float64{1, 2})
	assert.Assert(t, cons([]float64{0}) == nil)
}
