package quiz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/session"
)

// scriptPrompter replays replies and aborts once they run out.
type scriptPrompter struct {
	replies []string
	asked   []string
	told    []string
}

func (p *scriptPrompter) Ask(_ context.Context, prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.replies) == 0 {
		return "", prompter.ErrAborted
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r, nil
}

func (p *scriptPrompter) Tell(text string) {
	p.told = append(p.told, text)
}

func TestRunInteractiveRound(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator(t, &fakeGenerator{sets: []*bank.GeneratedSet{dogSet(3)}})

	round, err := o.StartNewTopicRound(ctx, RoundConfig{Topic: "Dogs"})
	require.NoError(t, err)

	p := &scriptPrompter{replies: []string{"answer 1", "", "nope"}}
	require.NoError(t, o.RunInteractiveRound(ctx, round.Session, p))

	s := round.Session
	assert.True(t, s.Done())
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, []string{"Dog question 1?", "Dog question 2?", "Dog question 3?"}, p.asked)

	told := strings.Join(p.told, "\n")
	assert.Contains(t, told, "Question 1 of 3")
	assert.Contains(t, told, "Correct!\nOther correct answers: [alt 1]")
	assert.Contains(t, told, "Skipped.")
	assert.Contains(t, told, "Wrong!\nCorrect answers: [answer 3], [alt 3]")

	out, err := o.FinishAndPersist(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "1 out of 3 (33.33%)", out.Score.Text)
}

func TestRunInteractiveRound_AbortAndResume(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator(t, &fakeGenerator{sets: []*bank.GeneratedSet{dogSet(2)}})

	round, err := o.StartNewTopicRound(ctx, RoundConfig{Topic: "Dogs"})
	require.NoError(t, err)

	err = o.RunInteractiveRound(ctx, round.Session, &scriptPrompter{replies: []string{"answer 1"}})
	require.ErrorIs(t, err, prompter.ErrAborted)

	resumed, err := o.ResumeSession(ctx, round.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusInProgress, resumed.Status)
	assert.Equal(t, 1, resumed.QuestionIndex)
	assert.Equal(t, 1, resumed.Correct)

	p := &scriptPrompter{replies: []string{"answer 2"}}
	require.NoError(t, o.RunInteractiveRound(ctx, resumed, p))
	assert.Equal(t, []string{"Dog question 2?"}, p.asked)

	out, err := o.FinishAndPersist(ctx, resumed)
	require.NoError(t, err)
	assert.Equal(t, "2 out of 2 (100%)", out.Score.Text)
}

func TestRunInteractiveRound_CompletedSession(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator(t, &fakeGenerator{sets: []*bank.GeneratedSet{dogSet(1)}})

	round, err := o.StartNewTopicRound(ctx, RoundConfig{Topic: "Dogs"})
	require.NoError(t, err)
	playAll(t, o, round.Session, true)

	p := &scriptPrompter{}
	require.NoError(t, o.RunInteractiveRound(ctx, round.Session, p))
	assert.Empty(t, p.asked)
}
