package topics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sessionscreen "github.com/abhisek/quizgen/internal/screens/session"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

type topicsLoadedMsg struct {
	Topics []bank.Summary
	Err    error
}

type reportLoadedMsg struct {
	Report *quiz.Report
	Err    error
}

// TopicsScreen lists the stored question banks.
type TopicsScreen struct {
	deps     screen.Deps
	topics   []bank.Summary
	selected int
	loaded   bool
	errMsg   string

	// report is set while one bank is shown in detail.
	report        *quiz.Report
	confirmDelete bool
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)
var _ screen.Refresher = (*TopicsScreen)(nil)

// New creates a new TopicsScreen.
func New(deps screen.Deps) *TopicsScreen {
	return &TopicsScreen{deps: deps}
}

func (s *TopicsScreen) Init() tea.Cmd {
	o := s.deps.Quiz
	return func() tea.Msg {
		topics, err := o.ListTopics(context.Background())
		return topicsLoadedMsg{Topics: topics, Err: err}
	}
}

// Refresh reloads the list and the open report after a round.
func (s *TopicsScreen) Refresh() tea.Cmd {
	cmds := []tea.Cmd{s.Init()}
	if s.report != nil {
		cmds = append(cmds, s.loadReport(s.report.Summary.ID))
	}
	return tea.Batch(cmds...)
}

func (s *TopicsScreen) loadReport(id string) tea.Cmd {
	o := s.deps.Quiz
	return func() tea.Msg {
		r, err := o.BankReport(context.Background(), id)
		return reportLoadedMsg{Report: r, Err: err}
	}
}

func (s *TopicsScreen) Title() string {
	if s.report != nil {
		return s.report.Summary.Title
	}
	return "Topics"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	case s.report != nil:
		return []layout.KeyHint{
			{Key: "P", Description: "Play"},
			{Key: "D", Description: "Delete"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = quiz.UserMessage(msg.Err)
			return s, nil
		}
		s.topics = msg.Topics
		s.selected = min(s.selected, max(len(s.topics)-1, 0))
		return s, nil

	case reportLoadedMsg:
		if msg.Err != nil {
			s.errMsg = quiz.UserMessage(msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		if s.report != nil {
			return s.handleDetailKey(msg.String())
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.topics)-1 {
				s.selected++
			}
		case "enter":
			if len(s.topics) > 0 {
				return s, s.loadReport(s.topics[s.selected].ID)
			}
		}
	}
	return s, nil
}

func (s *TopicsScreen) handleDetailKey(key string) (screen.Screen, tea.Cmd) {
	if s.confirmDelete {
		switch key {
		case "y", "Y":
			s.confirmDelete = false
			if err := s.deps.Quiz.DeleteTopic(context.Background(), s.report.Summary.ID); err != nil {
				s.errMsg = quiz.UserMessage(err)
				return s, nil
			}
			s.report = nil
			return s, s.Init()
		case "n", "N", "esc":
			s.confirmDelete = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.report = nil
		s.errMsg = ""
	case "d", "D":
		s.confirmDelete = true
	case "p", "P":
		sum := s.report.Summary
		setup := sessionscreen.NewSetup(s.deps, sessionscreen.Prefill{Topic: sum.Title, Difficulty: sum.Difficulty})
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: setup} }
	}
	return s, nil
}

func (s *TopicsScreen) View(width, height int) string {
	if s.errMsg != "" && s.report == nil {
		return theme.Centered(theme.ErrorText, width, "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return theme.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width, "\n\n  Loading topics...")
	}
	if s.report != nil {
		return s.renderReport(width)
	}
	if len(s.topics) == 0 {
		return theme.Centered(theme.Hint, width, "\n\n  No topics yet. Start a new round to create one!")
	}

	var b strings.Builder
	b.WriteString("\n")
	titleWidth := max(min(width-8, 60)-26, 16)
	for i, t := range s.topics {
		line := fmt.Sprintf("%-*s  %3d questions  %s",
			titleWidth, layout.Truncate(t.Title, titleWidth),
			t.QuestionCount,
			t.Difficulty)
		style := theme.Unselected
		prefix := "    "
		if i == s.selected {
			style = theme.Selected
			prefix = "  > "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *TopicsScreen) renderReport(width int) string {
	r := s.report
	sum := r.Summary
	tw := layout.TextWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, sum.Title))
	b.WriteString("\n")
	if sum.Description != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Subtitle.Width(tw).Render(sum.Description)))
		b.WriteString("\n")
	}
	meta := fmt.Sprintf("%d questions in %d tranches  ·  %s", sum.QuestionCount, sum.Tranches, sum.Difficulty)
	if sum.Grade != "" {
		meta += "  ·  grade " + sum.Grade
	}
	b.WriteString(theme.Centered(theme.Hint, width, meta))
	b.WriteString("\n\n")

	if r.Weakest != nil {
		weak := fmt.Sprintf("Needs work: %s (%d of %d correct)",
			layout.Truncate(r.Weakest.Prompt, tw-24), r.Weakest.Correct, r.Weakest.Attempts)
		b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Accent), width, weak))
		b.WriteString("\n\n")
	}

	promptWidth := max(tw-18, 16)
	for _, st := range r.Stats {
		rate := "   -"
		if st.Attempts > 0 {
			rate = theme.RateColor(float64(st.SuccessRate)).Render(fmt.Sprintf("%3d%%", st.SuccessRate))
		}
		line := fmt.Sprintf("%-*s  %2d/%-2d  %s",
			promptWidth, layout.Truncate(st.Prompt, promptWidth),
			st.Correct, st.Attempts, rate)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	if s.confirmDelete {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.ErrorText, width,
			"Delete this topic and all of its rounds? (y/n)"))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.ErrorText, width, s.errMsg))
	}
	return b.String()
}
