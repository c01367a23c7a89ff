package session

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sess "github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
)

// SessionScreen plays one session, a question at a time.
//
// Every transition runs synchronously in Update so the session is never
// touched from two goroutines.
type SessionScreen struct {
	deps  screen.Deps
	state *sess.QuizSession
	input components.TextInput
	added int

	feedback     *quiz.AnswerOutcome
	warning      string
	confirmQuit  bool
	errMsg       string
	finishFailed bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for a draft or resumed session.
func New(deps screen.Deps, s *sess.QuizSession) *SessionScreen {
	return &SessionScreen{
		deps:  deps,
		state: s,
		input: components.NewTextInput("Type your answer...", false, 200),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		s.input.Init(),
	)
}

func (s *SessionScreen) Title() string {
	return s.state.Title
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" && s.finishFailed:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave round"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Enter (empty)", Description: "Skip"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, height, s.errMsg, s.finishFailed)
	case s.confirmQuit:
		return renderQuitConfirm(width, height)
	case s.feedback != nil:
		return s.renderFeedback(width, height)
	}
	return s.renderQuestionView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return s.handleStart()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.answering() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) answering() bool {
	return s.errMsg == "" && !s.confirmQuit && s.feedback == nil && s.state.Status == sess.StatusInProgress
}

func (s *SessionScreen) handleStart() (screen.Screen, tea.Cmd) {
	if s.state.Status != sess.StatusDraft {
		return s, nil
	}
	if err := s.deps.Quiz.Start(context.Background(), s.state); err != nil {
		s.errMsg = quiz.UserMessage(err)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch {
	case s.errMsg != "":
		if key == "enter" && s.finishFailed {
			return s.finish()
		}
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil

	case s.confirmQuit:
		switch key {
		case "y", "Y":
			return s.leave()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil

	case s.feedback != nil:
		s.feedback = nil
		s.warning = ""
		if s.state.Done() {
			return s.finish()
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		return s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit answers the current question with the typed text. An empty
// answer skips the question.
func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	answer, err := prompter.Sanitize(s.input.Value())
	if err != nil {
		s.warning = quiz.UserMessage(err)
		return s, nil
	}

	ctx := context.Background()
	var out *quiz.AnswerOutcome
	if answer == "" {
		out, err = s.deps.Quiz.Skip(ctx, s.state)
	} else {
		out, err = s.deps.Quiz.Answer(ctx, s.state, answer)
	}
	if out == nil {
		s.errMsg = quiz.UserMessage(err)
		return s, nil
	}

	// The answer is recorded even when saving it failed; the next save
	// catches up.
	s.warning = quiz.UserMessage(err)
	s.feedback = out
	s.input.Reset()
	return s, nil
}

// finish scores the round and hands over to the summary.
func (s *SessionScreen) finish() (screen.Screen, tea.Cmd) {
	out, err := s.deps.Quiz.FinishAndPersist(context.Background(), s.state)
	if err != nil {
		s.errMsg = quiz.UserMessage(err)
		s.finishFailed = true
		return s, nil
	}
	s.errMsg = ""
	s.finishFailed = false
	summary := NewSummary(s.deps, out)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary} }
}

func (s *SessionScreen) leave() (screen.Screen, tea.Cmd) {
	s.confirmQuit = false
	if err := s.deps.Quiz.Abort(context.Background(), s.state); err != nil {
		s.errMsg = quiz.UserMessage(err)
		return s, nil
	}
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}
