// Package assignment2 grades DigiLab Assignment 2: modelling a six-bus system,
// running its power flow and formulating its optimal power flow.
package assignment2

import (
	"errors"
	"fmt"

	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/numeric"
	"github.com/ohowland/digilab/internal/pkg/optimize"
)

// Task identifiers.
const (
	Task11 = "a2/task1.1"
	Task12 = "a2/task1.2"
	Task21 = "a2/task2.1"
	Task22 = "a2/task2.2"
)

// Number of snapshots and buses of the assignment network.
const (
	Snapshots = 48
	Buses     = 6
	Loads     = 3
)

var (
	refVMagPuSet   = []float64{1.02, 1.0, 1.02, 1.0, 1.02, 1.0}
	refLineSNom    = []float64{228.6307066, 228.6307066, 160.04149462, 114.3153533, 228.6307066, 228.6307066}
	refLineX       = []float64{2, 2, 4, 12, 2, 2}
	refLineR       = []float64{0.5, 0.5, 2, 9, 0.5, 0.5}
	refGenControl  = []string{network.ControlSlack, network.ControlPV, network.ControlPV}
	refGenPMinPu   = []float64{0.01, 0.8, 0.6}
	refGenPSet     = []float64{0, 300, 100}
	lineRtol       = 1e-6
	lineAtol       = numeric.DefaultAtol
	lineRoundDigit = 3
)

// CheckTask11 checks the static data of the submitted network.
func CheckTask11(net *network.Network) grade.Report {
	s := grade.NewScorer(Task11, "Task 1.1 score", 8)
	if net == nil {
		return s.Fail(grade.ErrBadInput, "No network was submitted.")
	}

	lineClose := func(got, want []float64) bool {
		return numeric.AllClose(
			numeric.RoundAll(got, lineRoundDigit),
			numeric.RoundAll(want, lineRoundDigit),
			lineRtol, lineAtol)
	}

	s.Check(numeric.Equal(net.BusVMagPuSet(), refVMagPuSet), 1,
		"Voltage set points are not correct")
	s.Check(lineClose(net.LineSNom(), refLineSNom), 1,
		"Line ratings are not correct")
	s.Check(lineClose(net.LineX(), refLineX), 1,
		"Line reactances are not correct")
	s.Check(lineClose(net.LineR(), refLineR), 1,
		"Line resistances are not correct")
	s.Check(numeric.EqualStrings(net.GeneratorControl(), refGenControl), 1,
		"Generator controls are not correct (Slack, PV, PQ config)")
	s.Check(numeric.Equal(net.GeneratorPMinPu(), refGenPMinPu), 1,
		"Generator minimum powers are not correct")
	s.Check(numeric.Equal(net.GeneratorPSet(), refGenPSet), 1,
		"Generator set points are not correct")

	rows, cols := net.LoadsT.PSet.Shape()
	s.Check(rows == Snapshots && cols == Loads, 1,
		"Load time series is not correct")
	return s.Report()
}

// CheckTask12 awards full marks when power flow results cover every snapshot
// and bus. Otherwise it runs solver itself and awards the marks if it
// converges.
func CheckTask12(net *network.Network, solver network.Solver) grade.Report {
	s := grade.NewScorer(Task12, "", 6)
	if net == nil {
		return s.Fail(grade.ErrBadInput, "No network was submitted.")
	}

	rows, cols := net.BusesT.VMagPu.Shape()
	if rows == Snapshots && cols == Buses {
		s.Award(6)
		return s.Report()
	}

	s.Note("Power flow results are empty.")
	if err := net.PF(solver); err != nil {
		if errors.Is(err, network.ErrNoSolver) {
			return s.Fail(grade.ErrNoSolver, "Power flow could not be run.")
		}
		return s.Fail(fmt.Errorf("%w: %v", grade.ErrNotConverged, err), "Power flow did not converge.")
	}
	s.Award(6)
	return s.Report()
}

// Probes are the decision vectors [V1, V2, V3, P2, P3] at which the submitted
// objective and constraint functions are evaluated.
var Probes = [][]float64{
	{1.02, 1.02, 1.02, 300, 100},
	{1.02, 1.02, 1.02, 100, 0},
	{1.05, 1.05, 1.05, 0, 0},
}

var refObjective = []float64{3.406988302301761, 2.215011905075742, 3.264575038144324}

var refConstraints = [][]float64{
	{1.01560636, 0.99853285, 1.01785734, -126.59301191,
		90.46918336, 35.66519845, 18.7217287, 476.86671914,
		829.24760879, 493.21855151, 109.07514599, 364.43641948,
		190.74953421},
	{1.01573674, 0.99799356, 1.01786263, 172.21501184,
		14.61501278, 87.77710336, 37.72808624, 407.67844952,
		157.99903725, 458.14968215, 130.43571726, 164.41434368,
		335.80856821},
	{1.04576196, 1.0280766, 1.04791489, 273.264575,
		-8.2799852, 119.66762932, 32.41859638, 756.69560049,
		416.53669437, 418.89209791, 172.82674275, 211.83175124,
		382.14652633},
}

// CheckTask21 evaluates the submitted OPF objective and constraints at the
// probe points.
func CheckTask21(objective optimize.Objective, constraints optimize.Constraints) grade.Report {
	const title = "Task 2.1"
	return grade.Guard(Task21, title, 6, func() grade.Report {
		s := grade.NewScorer(Task21, title, 6)
		if objective == nil || constraints == nil {
			return s.Fail(grade.ErrBadInput, "Objective function and constraints are both required.")
		}

		objScore := 0
		for i, x := range Probes {
			if numeric.Round(objective(probe(x)), 5) == numeric.Round(refObjective[i], 5) {
				objScore++
			}
		}
		s.Award(objScore)
		s.Check(objScore == len(Probes), 0, "Objective function is not correct.")

		consScore := 0
		for i, x := range Probes {
			if numeric.AllClose(constraints(probe(x)), refConstraints[i], 1e-5, numeric.DefaultAtol) {
				consScore++
			}
		}
		s.Award(consScore)
		s.Check(consScore == len(Probes), 0, "Constraints are not correct.")
		return s.Report()
	})
}

// probe hands student code its own copy of a probe point.
func probe(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}

var refDispatch = []float64{1.04932527, 1.05, 1.04850317, 154.15605287, 41.4629837}

// CheckTask22 checks the optimal point found by the submitted OPF.
func CheckTask22(sol optimize.Result) grade.Report {
	s := grade.NewScorer(Task22, "", 6)
	if !sol.Success {
		return s.Fail(grade.ErrNotSuccessful, "The optimization was not successful.")
	}
	if !s.Check(numeric.AllClose(sol.X, refDispatch, numeric.DefaultRtol, 1e-5), 6, "Optimal dispatch is not correct.") {
		return s.Report()
	}
	s.Note("Success!")
	return s.Report()
}
