package session

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sess "github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// SummaryScreen displays the result of a finished round.
type SummaryScreen struct {
	deps    screen.Deps
	outcome *quiz.Outcome
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// NewSummary creates a new SummaryScreen.
func NewSummary(deps screen.Deps, outcome *quiz.Outcome) *SummaryScreen {
	return &SummaryScreen{deps: deps, outcome: outcome}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Round Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Same topic again"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "r", "R":
			setup := NewSetup(s.deps, Prefill{
				Topic:      s.outcome.Session.Title,
				Difficulty: s.outcome.Session.Difficulty,
			})
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: setup} }
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	out := s.outcome
	if out == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "Round complete!"))
	b.WriteString("\n\n")

	score := fmt.Sprintf("You answered %s.", out.Score.Text)
	b.WriteString(theme.Centered(theme.RateColor(out.Score.Percentage).Bold(true), width, score))
	b.WriteString("\n\n")

	// Questions divider.
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	promptWidth := max(min(width-8, 60)-24, 16)
	for i, st := range out.Stats {
		mark := theme.Incorrect.Render("x")
		if i < len(out.Session.Questions) {
			q := out.Session.Questions[i]
			if n := len(q.Attempts); n > 0 {
				switch last := q.Attempts[n-1]; {
				case last.IsSkipped:
					mark = theme.Skipped.Render("-")
				case last.IsCorrect:
					mark = theme.Correct.Render("✓")
				}
			}
		}
		record := fmt.Sprintf("%d/%d overall", st.Correct, st.Attempts)
		line := fmt.Sprintf("%s %-*s  %s  %s",
			mark,
			promptWidth, layout.Truncate(st.Prompt, promptWidth),
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(record),
			theme.RateColor(float64(st.SuccessRate)).Render(fmt.Sprintf("%3d%%", st.SuccessRate)),
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Text), width,
		"This run: "+runLine(out.Aggregate)))
	return b.String()
}

func runLine(a sess.Aggregate) string {
	rounds := "rounds"
	n := 0
	for _, t := range a.Topics {
		n += t.Sessions
	}
	if n == 1 {
		rounds = "round"
	}
	return fmt.Sprintf("%d %s, %s", n, rounds, a.Text())
}
