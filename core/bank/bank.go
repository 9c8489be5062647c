package bank

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoEntries is returned when no bank entries match the filters.
	ErrNoEntries = errors.New("no bank entries match filters")
	// ErrQueryFailed is returned when the bank lookup fails.
	ErrQueryFailed = errors.New("bank query failed")
)

// Entry is one pre-authored interview problem with its reference solution.
type Entry struct {
	Question string
	Hints    []string
	Solution string
}

// Filters narrows the bank sample. Zero values fall back to defaults.
type Filters struct {
	Difficulty string
	Topic      string
	Language   string
}

// Normalize lowercases the filters and applies defaults (medium/python).
func (f Filters) Normalize() Filters {
	f.Difficulty = strings.ToLower(strings.TrimSpace(f.Difficulty))
	f.Topic = strings.ToLower(strings.TrimSpace(f.Topic))
	f.Language = strings.ToLower(strings.TrimSpace(f.Language))
	if f.Difficulty == "" {
		f.Difficulty = "medium"
	}
	if f.Language == "" {
		f.Language = "python"
	}
	return f
}

// Bank looks up pre-authored problems and solutions. The sample is random
// but the returned order is the order entries will be presented in.
type Bank interface {
	Sample(ctx context.Context, f Filters) ([]Entry, error)
}

// Queue holds a session's sampled entries for in-order consumption.
// Questions and solutions are consumed independently because the model may
// interleave them differently across turns. Queue is owned by one session
// goroutine and unsynchronized.
type Queue struct {
	questions []string
	solutions []string
}

// NewQueue builds a consumption queue from sampled entries.
func NewQueue(entries []Entry) *Queue {
	q := &Queue{
		questions: make([]string, 0, len(entries)),
		solutions: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		q.questions = append(q.questions, e.Question)
		q.solutions = append(q.solutions, e.Solution)
	}
	return q
}

// NextQuestion pops the next question. ok is false when the bank is
// exhausted, a recoverable condition the caller handles with a fallback.
func (q *Queue) NextQuestion() (string, bool) {
	if len(q.questions) == 0 {
		return "", false
	}
	question := q.questions[0]
	q.questions = q.questions[1:]
	return question, true
}

// NextSolution pops the next solution.
func (q *Queue) NextSolution() (string, bool) {
	if len(q.solutions) == 0 {
		return "", false
	}
	solution := q.solutions[0]
	q.solutions = q.solutions[1:]
	return solution, true
}
