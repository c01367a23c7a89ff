package bank

import (
	"slices"
	"time"
)

// Question is one quiz item owned by a QuestionBank.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	Answers    []string   `json:"answers"`
	Tranche    int        `json:"tranche"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Attempts is append-only, oldest first. The counters below are a
	// cache over it and are only changed through AddAttempt.
	Attempts     []Attempt `json:"attempts"`
	AttemptCount int       `json:"attempt_count"`
	CorrectCount int       `json:"correct_count"`
	SkippedCount int       `json:"skipped_count"`
}

// Attempt is one answer (or skip) of a question within a session.
type Attempt struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id,omitempty"`
	UserAnswer    *string   `json:"user_answer"`
	IsCorrect     bool      `json:"is_correct"`
	IsSkipped     bool      `json:"is_skipped"`
	AnsweredAt    time.Time `json:"answered_at"`
	AnswerTimeMs  int64     `json:"answer_time_ms"`
	AnswersAtTime []string  `json:"answers_at_time"`
}

// AddAttempt appends a to the history and bumps the matching counter.
func (q *Question) AddAttempt(a Attempt) {
	q.Attempts = append(q.Attempts, a)
	switch {
	case a.IsSkipped:
		q.SkippedCount++
	case a.IsCorrect:
		q.AttemptCount++
		q.CorrectCount++
	default:
		q.AttemptCount++
	}
}

// Clone returns a copy that shares no slices with q.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	c := *q
	c.Answers = slices.Clone(q.Answers)
	c.Attempts = make([]Attempt, len(q.Attempts))
	for i, a := range q.Attempts {
		c.Attempts[i] = a.clone()
	}
	return &c
}

func (a Attempt) clone() Attempt {
	c := a
	if a.UserAnswer != nil {
		v := *a.UserAnswer
		c.UserAnswer = &v
	}
	c.AnswersAtTime = slices.Clone(a.AnswersAtTime)
	return c
}
