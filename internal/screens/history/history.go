package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sess "github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

type historyLoadedMsg struct {
	Aggregate sess.Aggregate
	Err       error
}

// HistoryScreen displays finished rounds grouped by topic.
type HistoryScreen struct {
	deps      screen.Deps
	aggregate sess.Aggregate
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screen.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	o := s.deps.Quiz
	return func() tea.Msg {
		agg, err := o.StoredHistory(context.Background(), "")
		return historyLoadedMsg{Aggregate: agg, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Rounds"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.aggregate = msg.Aggregate
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.aggregate.Topics)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.aggregate.Topics) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No finished rounds yet. Start a quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.RateColor(s.aggregate.OverallPercentage).Bold(true), width,
		fmt.Sprintf("Overall, you answered %s.", s.aggregate.Text())))
	b.WriteString("\n\n")

	titleWidth := max(min(width-8, 60)-34, 16)
	for i, t := range s.aggregate.Topics {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		rounds := "rounds"
		if t.Sessions == 1 {
			rounds = "round"
		}
		line := fmt.Sprintf("%s%-*s  %2d %-6s  %d out of %d (%s%%)",
			prefix, titleWidth, layout.Truncate(t.Title, titleWidth),
			t.Sessions, rounds, t.Correct, t.Total, sess.FormatPercent(t.Percentage))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, r := range t.Results {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+r)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
