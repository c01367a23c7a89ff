package api

import (
	"github.com/jinzhu/copier"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/session"
)

// questionView is a question as shown to the player, without its answers.
type questionView struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Number int    `json:"number"`
}

type sessionView struct {
	ID            string          `json:"id"`
	QuizID        string          `json:"quiz_id"`
	Title         string          `json:"title"`
	Difficulty    bank.Difficulty `json:"difficulty"`
	Status        session.Status  `json:"status"`
	QuestionIndex int             `json:"question_index"`
	Total         int             `json:"total"`
	Attempted     int             `json:"attempted"`
	Correct       int             `json:"correct"`
	Skipped       int             `json:"skipped"`
	Result        string          `json:"result,omitempty"`
	Current       *questionView   `json:"current,omitempty"`
}

func newSessionView(s *session.QuizSession) (*sessionView, error) {
	v := &sessionView{}
	if err := copier.Copy(v, s); err != nil {
		return nil, err
	}
	v.Title = s.Title
	v.Difficulty = s.Difficulty
	v.Total = len(s.Questions)
	if q := s.Current(); q != nil && s.Status == session.StatusInProgress {
		v.Current = &questionView{ID: q.ID, Prompt: q.Prompt, Number: s.QuestionIndex + 1}
	}
	return v, nil
}

type roundView struct {
	Session *sessionView `json:"session"`
	Added   int          `json:"added"`
	NewBank bool         `json:"new_bank"`
}

type answerRequest struct {
	// Answer is the typed reply. Blank, or nothing left after
	// sanitising, skips the question like an empty terminal reply.
	Answer string `json:"answer" validate:"max=200"`
}

type answerView struct {
	Correct  bool         `json:"correct"`
	Skipped  bool         `json:"skipped"`
	Answers  []string     `json:"answers,omitempty"`
	Feedback string       `json:"feedback"`
	Done     bool         `json:"done"`
	Session  *sessionView `json:"session"`
}

func newAnswerView(out *quiz.AnswerOutcome, s *session.QuizSession) (*answerView, error) {
	sv, err := newSessionView(s)
	if err != nil {
		return nil, err
	}
	v := &answerView{Done: out.Done, Session: sv}
	if out.Feedback == nil {
		v.Skipped = true
		v.Feedback = "Skipped."
		return v, nil
	}
	v.Correct = out.Feedback.Correct
	v.Answers = out.Feedback.Answers
	v.Feedback = out.Feedback.String()
	return v, nil
}
