// Package assignment1 grades DigiLab Assignment 1: a hand-written power flow
// over the three-bus network whose admittance matrix is YBus.
package assignment1

import (
	"fmt"

	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/numeric"
	"github.com/ohowland/digilab/internal/pkg/optimize"
)

// Task identifiers.
const (
	Task1 = "a1/task1"
	Task2 = "a1/task2"
	Task3 = "a1/task3"
)

// YBus is the per-unit bus admittance matrix handed out with the assignment.
var YBus = [][]complex128{
	{complex(0.23543242, -0.65826), complex(-0.19890411, 0.53041095), complex(-0.0365283, 0.12784906)},
	{complex(-0.19890411, 0.53041095), complex(0.48360997, -1.6692345), complex(-0.28470588, 1.1388235)},
	{complex(-0.0365283, 0.12784906), complex(-0.28470588, 1.1388235), complex(0.32123417, -1.2666726)},
}

// Reference solution at the first snapshot.
var (
	solP     = []float64{-0.488, -1.5, 2.0}
	solQ     = []float64{-0.639, -0.5, 1.182}
	solV     = []float64{1.0, 1.00867, 1.02}
	solTheta = []float64{0.0, 0.001282, 0.013395}
)

const atol = numeric.DefaultAtol

// ScoreTask1 compares the bus injections, voltage magnitudes and angles of a
// solved network with the reference power flow. One point per quantity.
func ScoreTask1(net *network.Network) grade.Report {
	s := grade.NewScorer(Task1, "", 4)
	if net == nil {
		return s.Fail(grade.ErrBadInput, "No network was submitted.")
	}

	p, okP := net.BusesT.P.Row(0)
	q, okQ := net.BusesT.Q.Row(0)
	v, okV := net.BusesT.VMagPu.Row(0)
	th, okTh := net.BusesT.VAng.Row(0)
	if !(okP && okQ && okV && okTh) {
		return s.Fail(grade.ErrBadInput, "Power flow results are empty.")
	}

	pCalc := numeric.RoundAll(p, 3)
	qCalc := numeric.RoundAll(q, 3)
	vCalc := numeric.RoundAll(v, 5)
	thCalc := numeric.RoundAll(th, 6)

	s.Check(numeric.AllClose(pCalc, solP, 1e-3, atol), 1,
		fmt.Sprintf("Expected P: %v but got %v", solP, pCalc))
	s.Check(numeric.AllClose(qCalc, solQ, 1e-3, atol), 1,
		fmt.Sprintf("Expected Q: %v but got %v", solQ, qCalc))
	s.Check(numeric.AllClose(vCalc, solV, 1e-5, atol), 1,
		fmt.Sprintf("Expected V: %v but got %v", solV, vCalc))
	s.Check(numeric.AllClose(thCalc, solTheta, 1e-6, atol), 1,
		fmt.Sprintf("Expected theta: %v but got %v", solTheta, thCalc))
	return s.Report()
}

// Reference unknowns of the Newton-Raphson solve: the two angles and the
// voltage magnitude of the PQ bus.
const (
	th1Sol = 0.00128
	th2Sol = 0.01340
	v1Sol  = 1.00867
)

// ScoreTask2 checks the unknowns [theta_1, theta_2, V_1] of a solver result.
func ScoreTask2(sol optimize.Result) grade.Report {
	s := grade.NewScorer(Task2, "", 3)
	if !sol.Success {
		return s.Fail(grade.ErrNotSuccessful, "The power flow equations were not solved.")
	}
	if len(sol.X) < 3 {
		return s.Fail(grade.ErrBadInput,
			fmt.Sprintf("Expected 3 unknowns [theta_1, theta_2, V_1] but got %d", len(sol.X)))
	}

	th1 := numeric.Round(sol.X[0], 5)
	th2 := numeric.Round(sol.X[1], 5)
	v1 := numeric.Round(sol.X[2], 5)

	s.Check(th1 == th1Sol, 1, fmt.Sprintf("Expected theta_1: %v but got %v rad", th1Sol, th1))
	s.Check(th2 == th2Sol, 1, fmt.Sprintf("Expected theta_2: %v but got %v rad", th2Sol, th2))
	s.Check(v1 == v1Sol, 1, fmt.Sprintf("Expected V_1: %v but got %v pu", v1Sol, v1))
	return s.Report()
}

var q3Sols = []float64{-2.47271, 0.08099, 2.91929}

// ScoreTask3 checks the reactive power of bus 3 computed for three cases.
// Values past the third are ignored.
func ScoreTask3(q3 []float64) grade.Report {
	s := grade.NewScorer(Task3, "", 3)
	if len(q3) < len(q3Sols) {
		return s.Fail(grade.ErrBadInput, fmt.Sprintf("Expected %d values of Q_3 but got %d", len(q3Sols), len(q3)))
	}
	calc := numeric.RoundAll(q3[:len(q3Sols)], 5)
	for i := range q3Sols {
		s.Check(numeric.IsClose(calc[i], q3Sols[i], 1e-3, atol), 1, "")
	}
	return s.Report()
}
