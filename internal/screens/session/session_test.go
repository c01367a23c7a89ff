package session

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quiz/quiztest"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sess "github.com/abhisek/quizgen/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(keyPress(r))
	}
	return s
}

func testDeps(t *testing.T, sets ...*bank.GeneratedSet) screen.Deps {
	t.Helper()
	var gen *quiztest.Generator
	if len(sets) > 0 {
		gen = &quiztest.Generator{Sets: sets}
	}
	return screen.Deps{
		Quiz:     quiztest.New(t, gen),
		Defaults: config.QuizConfig{Count: 2, Difficulty: "easy"},
	}
}

// startedScreen returns a question screen on a fresh two-question round.
func startedScreen(t *testing.T) (*SessionScreen, screen.Deps) {
	t.Helper()
	deps := testDeps(t, quiztest.Set("Dogs", 2))
	round := quiztest.Round(t, deps.Quiz, "Dogs", 2)

	s := New(deps, round.Session)
	if s.Init() == nil {
		t.Fatal("expected Init to return a command")
	}
	s.Update(startMsg{})
	require.Equal(t, sess.StatusInProgress, s.state.Status)
	return s, deps
}

func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestSetupScreen_SubmitStartsRound(t *testing.T) {
	deps := testDeps(t, quiztest.Set("Dogs", 3))
	var s screen.Screen = NewSetup(deps, Prefill{})
	s.Init()

	s = typeText(s, "Dogs")
	var cmd tea.Cmd
	for range 4 {
		s, cmd = s.Update(specialKey(tea.KeyEnter))
	}

	setup := s.(*SetupScreen)
	assert.True(t, setup.loading)
	cfg := setup.Config()
	assert.Equal(t, "Dogs", cfg.Topic)
	assert.Equal(t, 2, cfg.Count)
	assert.Equal(t, bank.Easy, cfg.Difficulty)
	assert.Equal(t, sess.ModeMix, cfg.Policy)

	ready, ok := msgOf(t, cmd).(roundReadyMsg)
	require.True(t, ok)
	require.NoError(t, ready.Err)

	_, cmd = s.Update(ready)
	replace, ok := msgOf(t, cmd).(router.ReplaceScreenMsg)
	require.True(t, ok)
	play, ok := replace.Screen.(*SessionScreen)
	require.True(t, ok)
	assert.Len(t, play.state.Questions, 2)
	assert.Equal(t, 3, play.added)
}

func TestSetupScreen_RequiresTopic(t *testing.T) {
	s := NewSetup(testDeps(t), Prefill{})
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, "Enter a topic first.", s.errMsg)
	assert.Equal(t, fieldTopic, s.focus)
}

func TestSetupScreen_ChoicesCycle(t *testing.T) {
	s := NewSetup(testDeps(t, quiztest.Set("Dogs", 1)), Prefill{Topic: "Dogs"})
	require.Equal(t, fieldPolicy, s.focus, "a prefilled topic skips to the next field")

	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, sess.ModeNew, s.Config().Policy)
	s.Update(specialKey(tea.KeyLeft))
	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, sess.ModeExisting, s.Config().Policy)

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	require.Equal(t, fieldDifficulty, s.focus)
	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, bank.Intermediate, s.Config().Difficulty)
}

func TestSetupScreen_NoGenerator(t *testing.T) {
	s := NewSetup(testDeps(t), Prefill{Topic: "Cats"})
	assert.Equal(t, sess.ModeExisting, s.Config().Policy)

	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, sess.ModeExisting, s.Config().Policy, "policy is fixed without a generator")
	assert.Contains(t, s.View(100, 30), "Question generation is off")

	s.focusOn(fieldDifficulty)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	ready := msgOf(t, cmd).(roundReadyMsg)
	require.Error(t, ready.Err)

	s.Update(ready)
	assert.False(t, s.loading)
	assert.Contains(t, s.errMsg, "not set up")
}

func TestSessionScreen_AnswerSkipAndFinish(t *testing.T) {
	s, deps := startedScreen(t)

	q := s.state.Current()
	s.input.SetValue(strings.ToUpper(q.Answers[0]))
	s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, s.feedback)
	require.NotNil(t, s.feedback.Feedback)
	assert.True(t, s.feedback.Feedback.Correct)
	assert.Contains(t, s.View(100, 30), "Correct!")
	assert.Empty(t, s.input.Value())

	_, cmd := s.Update(keyPress('x'))
	assert.Nil(t, cmd)
	assert.Nil(t, s.feedback)

	// Empty answer skips.
	s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, s.feedback)
	assert.Nil(t, s.feedback.Feedback)
	assert.True(t, s.feedback.Done)
	assert.Contains(t, s.View(100, 30), "Skipped.")

	_, cmd = s.Update(keyPress('x'))
	replace, ok := msgOf(t, cmd).(router.ReplaceScreenMsg)
	require.True(t, ok)
	summary, ok := replace.Screen.(*SummaryScreen)
	require.True(t, ok)

	assert.Equal(t, "1 out of 2 (50%)", summary.outcome.Score.Text)
	assert.Contains(t, summary.View(100, 30), "1 out of 2 (50%)")

	agg, err := deps.Quiz.StoredHistory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "1 out of 2 correctly (50%)", agg.Text())
}

func TestSessionScreen_WrongAnswer(t *testing.T) {
	s, _ := startedScreen(t)

	s.input.SetValue("no idea")
	s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, s.feedback)
	assert.False(t, s.feedback.Feedback.Correct)
	assert.Contains(t, s.View(100, 30), "Correct answers:")
}

func TestSessionScreen_UnsafeAnswer(t *testing.T) {
	s, _ := startedScreen(t)

	s.input.SetValue("../etc/passwd")
	s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, s.feedback)
	assert.Equal(t, 0, s.state.QuestionIndex)
	assert.Equal(t, quiz.UserMessage(prompter.ErrUnsafeInput), s.warning)
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, deps := startedScreen(t)

	s.Update(specialKey(tea.KeyEscape))
	require.True(t, s.confirmQuit)
	assert.Len(t, s.KeyHints(), 2)

	s.Update(keyPress('n'))
	assert.False(t, s.confirmQuit)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	_, ok := msgOf(t, cmd).(router.PopScreenMsg)
	assert.True(t, ok)

	resumed, err := deps.Quiz.ResumeSession(context.Background(), s.state.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.StatusInProgress, resumed.Status)
}

func TestSessionScreen_ResumedSessionIsNotRestarted(t *testing.T) {
	s, deps := startedScreen(t)
	s.input.SetValue("wrong")
	s.Update(specialKey(tea.KeyEnter))

	resumed, err := deps.Quiz.ResumeSession(context.Background(), s.state.ID)
	require.NoError(t, err)

	r := New(deps, resumed)
	r.Update(startMsg{})
	assert.Equal(t, 1, r.state.QuestionIndex)
	assert.Contains(t, r.View(100, 30), "Question 2 of 2")
}

func TestSummaryScreen_Navigation(t *testing.T) {
	s, _ := startedScreen(t)
	for !s.state.Done() {
		s.Update(specialKey(tea.KeyEnter))
		s.feedback = nil
	}
	out, err := s.deps.Quiz.FinishAndPersist(context.Background(), s.state)
	require.NoError(t, err)

	summary := NewSummary(s.deps, out)
	assert.Equal(t, "Round Summary", summary.Title())
	assert.Len(t, summary.KeyHints(), 3)
	assert.Contains(t, summary.View(100, 30), "This run: 1 round, 0 out of 2 correctly (0%)")

	_, cmd := summary.Update(keyPress('r'))
	replace, ok := msgOf(t, cmd).(router.ReplaceScreenMsg)
	require.True(t, ok)
	setup, ok := replace.Screen.(*SetupScreen)
	require.True(t, ok)
	assert.Equal(t, "Dogs", setup.Config().Topic)

	_, cmd = summary.Update(specialKey(tea.KeyEnter))
	_, ok = msgOf(t, cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}
