package grade

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotConverged is reported when a power flow solve fails.
	ErrNotConverged = errors.New("power flow did not converge")
	// ErrNotSuccessful is reported when a submitted solver result is flagged unsuccessful.
	ErrNotSuccessful = errors.New("solution was not successful")
	// ErrBadInput is reported when a submission has the wrong shape or type.
	ErrBadInput = errors.New("malformed submission")
	// ErrNoSolver is reported when a power flow is needed but none was supplied.
	ErrNoSolver = errors.New("no power flow solver available")
)

// Report is the outcome of one grading routine.
type Report struct {
	ID       uuid.UUID
	Task     string
	Student  string
	Title    string
	Score    int
	Max      int
	Messages []string
	Err      error
	GradedAt time.Time
}

// Summary is the score line printed after the messages.
func (r Report) Summary() string {
	if r.Title == "" {
		return fmt.Sprintf("Score: %d/%d", r.Score, r.Max)
	}
	return fmt.Sprintf("%s: %d/%d", r.Title, r.Score, r.Max)
}

// Passed reports full marks without error.
func (r Report) Passed() bool {
	return r.Err == nil && r.Score == r.Max
}

type reportJSON struct {
	ID       string    `json:"id"`
	Task     string    `json:"task"`
	Student  string    `json:"student,omitempty"`
	Title    string    `json:"title,omitempty"`
	Score    int       `json:"score"`
	Max      int       `json:"max"`
	Messages []string  `json:"messages"`
	Error    string    `json:"error,omitempty"`
	GradedAt time.Time `json:"graded_at"`
}

// MarshalJSON flattens Err into a string.
func (r Report) MarshalJSON() ([]byte, error) {
	j := reportJSON{
		ID:       r.ID.String(),
		Task:     r.Task,
		Student:  r.Student,
		Title:    r.Title,
		Score:    r.Score,
		Max:      r.Max,
		Messages: r.Messages,
		GradedAt: r.GradedAt,
	}
	if j.Messages == nil {
		j.Messages = []string{}
	}
	if r.Err != nil {
		j.Error = r.Err.Error()
	}
	return json.Marshal(j)
}

// UnmarshalJSON restores a report. A decoded error keeps its text only.
func (r *Report) UnmarshalJSON(data []byte) error {
	j := reportJSON{}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	id, err := uuid.Parse(j.ID)
	if err != nil {
		return err
	}
	*r = Report{
		ID:       id,
		Task:     j.Task,
		Student:  j.Student,
		Title:    j.Title,
		Score:    j.Score,
		Max:      j.Max,
		Messages: j.Messages,
		GradedAt: j.GradedAt,
	}
	if j.Error != "" {
		r.Err = errors.New(j.Error)
	}
	return nil
}

// Print writes the report messages followed by the summary line.
func Print(w io.Writer, r Report) error {
	for _, m := range r.Messages {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}
