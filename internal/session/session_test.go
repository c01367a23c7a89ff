package session

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/bank"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testLifecycle() (*Lifecycle, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	return &Lifecycle{
		Now: clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}, clock
}

func testBank(t *testing.T, n int) (*bank.QuestionBank, []*bank.Question) {
	t.Helper()
	set := &bank.GeneratedSet{Title: "Dogs", Description: "Dog facts"}
	for i := 1; i <= n; i++ {
		set.Questions = append(set.Questions, bank.RawQuestion{
			Prompt:  fmt.Sprintf("Dog question %d?", i),
			Answers: []string{fmt.Sprintf("a%d", i), fmt.Sprintf("alt%d", i)},
		})
	}
	res, err := bank.NewMerger().Merge(bank.New("bank-1", "dogs", time.Now()), set, bank.MergeOptions{Difficulty: bank.Easy, Grade: "4"})
	require.NoError(t, err)
	return res.Bank, res.Added
}

func TestCreate(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 2)

	s, err := l.Create(b, qs)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, s.Status)
	assert.Equal(t, 0, s.QuestionIndex)
	assert.Equal(t, "bank-1", s.QuizID)
	assert.Equal(t, "Dogs", s.Title)
	assert.Equal(t, "Dog facts", s.Description)
	assert.Equal(t, bank.Easy, s.Difficulty)
	assert.Equal(t, "4", s.Grade)
	require.Len(t, s.Questions, 2)

	s.Questions[0].Answers[0] = "changed"
	assert.NotEqual(t, "changed", qs[0].Answers[0], "session must own independent copies")
}

func TestCreate_NoQuestions(t *testing.T) {
	l, _ := testLifecycle()
	b, _ := testBank(t, 1)
	_, err := l.Create(b, nil)
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
}

func TestStart(t *testing.T) {
	l, clock := testLifecycle()
	b, qs := testBank(t, 1)
	s, err := l.Create(b, qs)
	require.NoError(t, err)

	require.NoError(t, l.Start(s))
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, clock.Now(), s.QuestionStartedAt)

	assert.ErrorIs(t, l.Start(s), ErrInvalidTransition)
}

func TestStatusValues(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 1)
	s, err := l.Create(b, qs)
	require.NoError(t, err)

	statusOf := func() string {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		var doc struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		return doc.Status
	}
	assert.Equal(t, "draft", statusOf())
	require.NoError(t, l.Start(s))
	assert.Equal(t, "inProgress", statusOf())
	_, err = l.RecordSkip(s)
	require.NoError(t, err)
	assert.Equal(t, "complete", statusOf())
}

func TestRecordAnswerOnDraftFails(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 2)
	s, err := l.Create(b, qs)
	require.NoError(t, err)

	_, err = l.RecordAnswer(s, "a1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = l.RecordSkip(s)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, 0, s.QuestionIndex)
	assert.Equal(t, StatusDraft, s.Status)
	assert.Empty(t, s.Questions[0].Attempts)
	assert.Zero(t, s.Attempted+s.Skipped)
}

func TestRecordAnswer(t *testing.T) {
	l, clock := testLifecycle()
	b, qs := testBank(t, 3)
	s, err := l.Create(b, qs)
	require.NoError(t, err)
	require.NoError(t, l.Start(s))

	clock.Advance(1500 * time.Millisecond)
	a, err := l.RecordAnswer(s, "A1")
	require.NoError(t, err)
	assert.True(t, a.IsCorrect)
	assert.Equal(t, int64(1500), a.AnswerTimeMs)
	assert.Equal(t, s.ID, a.SessionID)
	assert.Equal(t, []string{"a1", "alt1"}, a.AnswersAtTime)
	assert.Equal(t, 1, s.QuestionIndex)
	assert.Equal(t, StatusInProgress, s.Status)

	q := s.Questions[0]
	assert.Equal(t, 1, q.AttemptCount)
	assert.Equal(t, 1, q.CorrectCount)
	require.Len(t, q.Attempts, 1)

	clock.Advance(time.Second)
	a, err = l.RecordAnswer(s, "wrong")
	require.NoError(t, err)
	assert.False(t, a.IsCorrect)
	assert.Equal(t, int64(1000), a.AnswerTimeMs)
	assert.Equal(t, 0, s.Questions[1].CorrectCount)
	assert.Equal(t, 1, s.Questions[1].AttemptCount)

	a, err = l.RecordSkip(s)
	require.NoError(t, err)
	assert.True(t, a.IsSkipped)
	assert.Nil(t, a.UserAnswer)
	assert.Equal(t, 1, s.Questions[2].SkippedCount)
	assert.Equal(t, 0, s.Questions[2].AttemptCount)

	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, 3, s.QuestionIndex)
	assert.Equal(t, 2, s.Attempted)
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 1, s.Skipped)

	_, err = l.RecordAnswer(s, "a1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 3, s.QuestionIndex)
}

func TestIndexAdvancesByOne(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 4)
	s, err := l.Create(b, qs)
	require.NoError(t, err)
	require.NoError(t, l.Start(s))

	for i := 0; i < 4; i++ {
		assert.NotEqual(t, StatusComplete, s.Status, "completed early at %d", i)
		if i%2 == 0 {
			_, err = l.RecordSkip(s)
		} else {
			_, err = l.RecordAnswer(s, "x")
		}
		require.NoError(t, err)
		assert.Equal(t, i+1, s.QuestionIndex)
		assert.LessOrEqual(t, s.Attempted+s.Skipped, s.QuestionIndex)
	}
	assert.Equal(t, StatusComplete, s.Status)
}

func TestComplete(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 3)
	s, err := l.Create(b, qs)
	require.NoError(t, err)

	_, err = l.Complete(s)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, l.Start(s))
	for i := 1; i <= 3; i++ {
		_, err := l.RecordAnswer(s, fmt.Sprintf("alt%d", i))
		require.NoError(t, err)
	}

	score, err := l.Complete(s)
	require.NoError(t, err)
	assert.Equal(t, "3 out of 3 (100%)", score.Text)
	assert.Equal(t, score.Text, s.Result)

	again, err := l.Complete(s)
	require.NoError(t, err)
	assert.Equal(t, score, again)
	assert.Equal(t, 3, s.Correct)
}

// A question answered correctly in an earlier round and wrongly now keeps
// both attempts on the session copy.
func TestAttemptHistoryCarriesIntoSession(t *testing.T) {
	l, _ := testLifecycle()
	b, qs := testBank(t, 1)

	first, err := l.Create(b, qs)
	require.NoError(t, err)
	require.NoError(t, l.Start(first))
	_, err = l.RecordAnswer(first, "a1")
	require.NoError(t, err)
	b.Replace(first.Questions, time.Now())

	second, err := l.Create(b, b.List())
	require.NoError(t, err)
	require.NoError(t, l.Start(second))
	_, err = l.RecordAnswer(second, "nope")
	require.NoError(t, err)
	score, err := l.Complete(second)
	require.NoError(t, err)
	assert.Equal(t, "0 out of 1 (0%)", score.Text)

	q := second.Questions[0]
	assert.Equal(t, 2, q.AttemptCount)
	assert.Equal(t, 1, q.CorrectCount)
	assert.Len(t, q.Attempts, 2)
	assert.Equal(t, 50, bank.Statistics(q).SuccessRate)

	agg := AggregateHistory([]*QuizSession{first, second})
	assert.Equal(t, "1 out of 2 correctly (50%)", agg.Text())
}
