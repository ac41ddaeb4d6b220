package task

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/lib/assignment1"
	"github.com/ohowland/digilab/internal/lib/assignment2"
	"github.com/ohowland/digilab/internal/pkg/grade"
	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/optimize"
	"github.com/ohowland/digilab/internal/pkg/submission"
)

// ErrUnknownTask is returned for an unregistered task ID.
var ErrUnknownTask = errors.New("unknown task")

// Grader grades one submission. Graders that need a power flow use solver,
// which may be nil.
type Grader func(sub submission.Submission, solver network.Solver) grade.Report

// Task describes a gradable exercise.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Max         int    `json:"max"`
	Needs       string `json:"needs"`
	grader      Grader
}

var registry = map[string]Task{
	assignment1.Task1: {
		ID:          assignment1.Task1,
		Description: "Assignment 1, task 1: power flow results of the three-bus network",
		Max:         4,
		Needs:       "network",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			return assignment1.ScoreTask1(sub.Network)
		},
	},
	assignment1.Task2: {
		ID:          assignment1.Task2,
		Description: "Assignment 1, task 2: Newton-Raphson unknowns [theta_1, theta_2, V_1]",
		Max:         3,
		Needs:       "result",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			if sub.Result == nil {
				return missing(assignment1.Task2, "", 3, "result")
			}
			return assignment1.ScoreTask2(*sub.Result)
		},
	},
	assignment1.Task3: {
		ID:          assignment1.Task3,
		Description: "Assignment 1, task 3: reactive power of bus 3 for three cases",
		Max:         3,
		Needs:       "values",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			return assignment1.ScoreTask3(sub.Values)
		},
	},
	assignment2.Task11: {
		ID:          assignment2.Task11,
		Description: "Assignment 2, task 1.1: six-bus network data",
		Max:         8,
		Needs:       "network",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			return assignment2.CheckTask11(sub.Network)
		},
	},
	assignment2.Task12: {
		ID:          assignment2.Task12,
		Description: "Assignment 2, task 1.2: power flow over all snapshots",
		Max:         6,
		Needs:       "network",
		grader: func(sub submission.Submission, solver network.Solver) grade.Report {
			return assignment2.CheckTask12(sub.Network, solver)
		},
	},
	assignment2.Task21: {
		ID:          assignment2.Task21,
		Description: "Assignment 2, task 2.1: OPF objective and constraints evaluated at the probe points",
		Max:         6,
		Needs:       "objective, constraints",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			if len(sub.Objective) == 0 || len(sub.Constraints) == 0 {
				return missing(assignment2.Task21, "Task 2.1", 6, "objective and constraints")
			}
			return assignment2.CheckTask21(
				optimize.TabulatedObjective(assignment2.Probes, sub.Objective),
				optimize.TabulatedConstraints(assignment2.Probes, sub.Constraints),
			)
		},
	},
	assignment2.Task22: {
		ID:          assignment2.Task22,
		Description: "Assignment 2, task 2.2: optimal dispatch",
		Max:         6,
		Needs:       "result",
		grader: func(sub submission.Submission, _ network.Solver) grade.Report {
			if sub.Result == nil {
				return missing(assignment2.Task22, "", 6, "result")
			}
			return assignment2.CheckTask22(*sub.Result)
		},
	},
}

func missing(id, title string, max int, part string) grade.Report {
	s := grade.NewScorer(id, title, max)
	return s.Fail(grade.ErrBadInput, fmt.Sprintf("Submission has no %s.", part))
}

// Lookup returns the task registered under id.
func Lookup(id string) (Task, error) {
	t, ok := registry[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %q", ErrUnknownTask, id)
	}
	return t, nil
}

// List returns every task ordered by ID.
func List() []Task {
	out := make([]Task, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Run grades sub against task id. The submission's own task field is ignored
// when id is given; an empty id falls back to it.
func Run(id string, sub submission.Submission, solver network.Solver) (grade.Report, error) {
	if id == "" {
		id = sub.Task
	}
	t, err := Lookup(id)
	if err != nil {
		return grade.Report{}, err
	}

	r := t.grader(sub, solver)

	pid, err := uuid.NewUUID()
	if err != nil {
		return grade.Report{}, err
	}
	r.ID = pid
	r.Task = t.ID
	r.Student = sub.Student
	r.GradedAt = time.Now().UTC()
	return r, nil
}
