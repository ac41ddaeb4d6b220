package assignment1

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/ohowland/digilab/internal/lib/unitcommitment"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/optimize"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// solvedNetwork returns a network carrying the given first-snapshot results.
func solvedNetwork(p, q, v, th []float64) *network.Network {
	cols := []string{"Bus 1", "Bus 2", "Bus 3"}
	row := func(values []float64) network.Frame {
		return network.Frame{Columns: cols, Data: [][]float64{values}}
	}
	n := network.New("a1", 1)
	n.BusesT = network.BusSeries{P: row(p), Q: row(q), VMagPu: row(v), VAng: row(th)}
	return n
}

func TestScoreTask1Full(t *testing.T) {
	n := solvedNetwork(
		[]float64{-0.48812, -1.5, 2.00004},
		[]float64{-0.6391, -0.5, 1.18195},
		[]float64{1.0, 1.008671, 1.02},
		[]float64{0, 0.0012817, 0.0133953},
	)
	r := ScoreTask1(n)
	assert.Equal(t, r.Score, 4)
	assert.Equal(t, r.Summary(), "Score: 4/4")
	assert.Assert(t, is.Len(r.Messages, 0))
}

func TestScoreTask1Partial(t *testing.T) {
	n := solvedNetwork(
		[]float64{-0.488, -1.5, 2.0},
		[]float64{-0.639, -0.5, 1.182},
		[]float64{1.0, 1.0, 1.02},
		[]float64{0, 0.0015, 0.013395},
	)
	r := ScoreTask1(n)
	assert.Equal(t, r.Score, 2)
	assert.Assert(t, is.Len(r.Messages, 2))
	assert.Assert(t, is.Contains(r.Messages[0], "Expected V: [1 1.00867 1.02] but got [1 1 1.02]"))
	assert.Assert(t, is.Contains(r.Messages[1], "Expected theta"))
}

func TestScoreTask1Empty(t *testing.T) {
	r := ScoreTask1(network.New("empty", 0))
	assert.Equal(t, r.Score, 0)
	assert.Assert(t, errors.Is(r.Err, grade.ErrBadInput))

	r = ScoreTask1(nil)
	assert.Assert(t, errors.Is(r.Err, grade.ErrBadInput))
}

func TestScoreTask2(t *testing.T) {
	cases := []struct {
		name  string
		sol   optimize.Result
		score int
		msgs  int
		err   error
	}{
		{
			name:  "exact",
			sol:   optimize.Result{Success: true, X: []float64{0.001282, 0.0133952, 1.008671}},
			score: 3,
		},
		{
			name:  "wrong-voltage",
			sol:   optimize.Result{Success: true, X: []float64{0.001282, 0.0133952, 1.0}},
			score: 2,
			msgs:  1,
		},
		{
			name:  "not-solved",
			sol:   optimize.Result{Success: false, X: []float64{0.001282, 0.0133952, 1.008671}},
			score: 0,
			msgs:  1,
			err:   grade.ErrNotSuccessful,
		},
		{
			name:  "too-short",
			sol:   optimize.Result{Success: true, X: []float64{0.001282}},
			score: 0,
			msgs:  1,
			err:   grade.ErrBadInput,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := ScoreTask2(c.sol)
			assert.Equal(t, r.Score, c.score)
			assert.Equal(t, r.Max, 3)
			assert.Assert(t, is.Len(r.Messages, c.msgs))
			if c.err != nil {
				assert.Assert(t, errors.Is(r.Err, c.err))
			} else {
				assert.NilError(t, r.Err)
			}
		})
	}
}

func TestScoreTask2Message(t *testing.T) {
	r := ScoreTask2(optimize.Result{Success: true, X: []float64{0.002, 0.0133952, 1.008671}})
	assert.DeepEqual(t, r.Messages, []string{"Expected theta_1: 0.00128 but got 0.002 rad"})
}

func TestScoreTask3(t *testing.T) {
	r := ScoreTask3([]float64{-2.4727, 0.081, 2.91929})
	assert.Equal(t, r.Score, 3)

	r = ScoreTask3([]float64{-2.4727, 0.09, 2.0})
	assert.Equal(t, r.Score, 1)
	assert.Equal(t, r.Summary(), "Score: 1/3")

	r = ScoreTask3([]float64{1, 2})
	assert.Equal(t, r.Score, 0)
	assert.Assert(t, errors.Is(r.Err, grade.ErrBadInput))
	assert.DeepEqual(t, r.Messages, []string{"Expected 3 values of Q_3 but got 2"})

	r = ScoreTask3([]float64{-2.47271, 0.08099, 2.91929, 7})
	assert.NilError(t, r.Err)
	assert.Equal(t, r.Score, 3)
}

func TestYBusMatchesUnitCommitmentNetwork(t *testing.T) {
	n, err := unitcommitment.GetNetwork([]float64{1}, 1, 1)
	assert.NilError(t, err)

	y, err := n.AdmittanceMatrix(unitcommitment.SBase)
	assert.NilError(t, err)
	for i := range YBus {
		for j := range YBus[i] {
			assert.Assert(t, cmplx.Abs(y[i][j]-YBus[i][j]) < 1e-6,
				"Y[%d][%d] = %v, want %v", i, j, y[i][j], YBus[i][j])
		}
	}
}
