package session

import (
	"time"

	"github.com/abhisek/quizgen/internal/bank"
)

// Status is the lifecycle state of a QuizSession.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "inProgress"
	StatusComplete   Status = "complete"
)

// BankSnapshot is the bank metadata copied into a session when it is created.
type BankSnapshot struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  bank.Difficulty `json:"difficulty"`
	Grade       string          `json:"grade"`
}

// QuizSession is one run through a selection of a bank's questions.
type QuizSession struct {
	ID     string `json:"id"`
	QuizID string `json:"quiz_id"`

	BankSnapshot

	// Questions are the session's own copies of the selected questions.
	// They are written back to the bank once, when the round is finished.
	// The slice length never changes after creation.
	Questions []*bank.Question `json:"questions"`

	Status Status `json:"status"`

	// QuestionIndex is the cursor into Questions. It only moves forward and
	// equals len(Questions) exactly when Status is StatusComplete.
	QuestionIndex int `json:"question_index"`

	// Attempted, Correct and Skipped count this round only.
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Skipped   int `json:"skipped"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// QuestionStartedAt is when the current question was shown.
	QuestionStartedAt time.Time `json:"question_started_at"`

	// Result is the summary line, set by Lifecycle.Complete.
	Result string `json:"result,omitempty"`
}

// Current returns the question under the cursor, or nil when the session
// has no question left.
func (s *QuizSession) Current() *bank.Question {
	if s.QuestionIndex < 0 || s.QuestionIndex >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.QuestionIndex]
}

// Remaining returns how many questions are still to be answered or skipped.
func (s *QuizSession) Remaining() int {
	return len(s.Questions) - s.QuestionIndex
}

// Done reports whether every question has been answered or skipped.
func (s *QuizSession) Done() bool {
	return s.Status == StatusComplete
}
