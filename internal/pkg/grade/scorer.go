package grade

import (
	"fmt"
)

// Scorer accumulates partial credit for a single task.
type Scorer struct {
	task     string
	title    string
	max      int
	score    int
	messages []string
}

// NewScorer returns a Scorer worth max points.
func NewScorer(task, title string, max int) *Scorer {
	return &Scorer{task: task, title: title, max: max}
}

// Check awards points when ok, otherwise records failMsg. An empty failMsg
// fails silently.
func (s *Scorer) Check(ok bool, points int, failMsg string) bool {
	if ok {
		s.score += points
		return true
	}
	if failMsg != "" {
		s.messages = append(s.messages, failMsg)
	}
	return false
}

// Award adds points unconditionally.
func (s *Scorer) Award(points int) {
	s.score += points
}

// Note records a message without touching the score.
func (s *Scorer) Note(msg string) {
	s.messages = append(s.messages, msg)
}

// Fail discards any credit and returns a zero report carrying err.
func (s *Scorer) Fail(err error, msg string) Report {
	if msg != "" {
		s.Note(msg)
	}
	r := s.Report()
	r.Score = 0
	r.Err = err
	return r
}

// Report snapshots the scorer.
func (s *Scorer) Report() Report {
	score := s.score
	if score > s.max {
		score = s.max
	}
	msgs := make([]string, len(s.messages))
	copy(msgs, s.messages)
	return Report{
		Task:     s.task,
		Title:    s.title,
		Score:    score,
		Max:      s.max,
		Messages: msgs,
	}
}

// Guard runs fn and turns a panic into a zero report. Grading routines call
// student-supplied functions, which may panic on malformed input.
func Guard(task, title string, max int, fn func() Report) (r Report) {
	defer func() {
		if p := recover(); p != nil {
			s := NewScorer(task, title, max)
			r = s.Fail(fmt.Errorf("%w: %v", ErrBadInput, p), fmt.Sprintf("Submission raised an error: %v", p))
		}
	}()
	return fn()
}
