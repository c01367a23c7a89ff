package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/abhisek/quizgen/internal/bank"
)

var (
	// ErrInvalidTransition is returned for an operation that the session's
	// current status does not allow. The session is left untouched.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNoQuestionsAvailable is returned when a round would have no questions.
	ErrNoQuestionsAvailable = errors.New("no questions available")
)

// Lifecycle drives sessions through draft, inProgress and complete.
type Lifecycle struct {
	Now   func() time.Time
	NewID func() string
}

// NewLifecycle returns a Lifecycle using wall-clock time and random UUIDs.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{Now: time.Now, NewID: uuid.NewString}
}

// Create builds a draft session over copies of selected. The copies keep
// the bank's attempt history so they can replace the bank's records
// wholesale when the round is finished.
func (l *Lifecycle) Create(b *bank.QuestionBank, selected []*bank.Question) (*QuizSession, error) {
	if len(selected) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	now := l.Now()
	s := &QuizSession{
		ID:        l.NewID(),
		QuizID:    b.ID,
		Questions: make([]*bank.Question, len(selected)),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := copier.Copy(&s.BankSnapshot, b); err != nil {
		return nil, fmt.Errorf("snapshot bank: %w", err)
	}
	for i, q := range selected {
		s.Questions[i] = q.Clone()
	}
	return s, nil
}

// Start moves a draft session to inProgress and starts the first
// question's clock.
func (l *Lifecycle) Start(s *QuizSession) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: start on %s session", ErrInvalidTransition, s.Status)
	}
	now := l.Now()
	s.Status = StatusInProgress
	s.QuestionStartedAt = now
	s.UpdatedAt = now
	return nil
}

// RecordAnswer checks answer against the current question, records the
// attempt and advances the cursor.
func (l *Lifecycle) RecordAnswer(s *QuizSession, answer string) (*bank.Attempt, error) {
	if err := checkAnswerable(s, "answer"); err != nil {
		return nil, err
	}
	q := s.Current()
	correct := bank.CheckAnswer(q.Answers, answer)
	a := l.newAttempt(s, q)
	a.UserAnswer = &answer
	a.IsCorrect = correct

	s.Attempted++
	if correct {
		s.Correct++
	}
	return l.advance(s, q, a), nil
}

// RecordSkip records a skipped attempt for the current question and
// advances the cursor.
func (l *Lifecycle) RecordSkip(s *QuizSession) (*bank.Attempt, error) {
	if err := checkAnswerable(s, "skip"); err != nil {
		return nil, err
	}
	q := s.Current()
	a := l.newAttempt(s, q)
	a.IsSkipped = true

	s.Skipped++
	return l.advance(s, q, a), nil
}

// Complete scores a finished session and stores the result line on it.
// Calling it again returns the same score without changing anything.
func (l *Lifecycle) Complete(s *QuizSession) (Score, error) {
	if s.Status != StatusComplete {
		return Score{}, fmt.Errorf("%w: complete on %s session", ErrInvalidTransition, s.Status)
	}
	score := ScoreSession(s)
	if s.Result != score.Text {
		s.Result = score.Text
		s.UpdatedAt = l.Now()
	}
	return score, nil
}

func checkAnswerable(s *QuizSession, op string) error {
	if s.Status != StatusInProgress || s.QuestionIndex >= len(s.Questions) {
		return fmt.Errorf("%w: %s on %s session", ErrInvalidTransition, op, s.Status)
	}
	return nil
}

func (l *Lifecycle) newAttempt(s *QuizSession, q *bank.Question) bank.Attempt {
	now := l.Now()
	return bank.Attempt{
		ID:            l.NewID(),
		SessionID:     s.ID,
		AnsweredAt:    now,
		AnswerTimeMs:  now.Sub(s.QuestionStartedAt).Milliseconds(),
		AnswersAtTime: slices.Clone(q.Answers),
	}
}

func (l *Lifecycle) advance(s *QuizSession, q *bank.Question, a bank.Attempt) *bank.Attempt {
	q.AddAttempt(a)
	s.QuestionIndex++
	s.QuestionStartedAt = a.AnsweredAt
	s.UpdatedAt = a.AnsweredAt
	if s.QuestionIndex == len(s.Questions) {
		s.Status = StatusComplete
	}
	return &a
}
