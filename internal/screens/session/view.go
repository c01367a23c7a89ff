package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// renderQuestionView renders the current question and the answer input.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	state := s.state
	q := state.Current()
	if q == nil {
		return theme.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width, "\n\n  Starting round...")
	}

	tw := layout.TextWidth(width)
	total := len(state.Questions)
	var b strings.Builder

	// Round info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", state.QuestionIndex+1, total))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d  %s %d",
			lipgloss.NewStyle().Foreground(theme.Success).Render("correct"),
			state.Correct,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("skipped"),
			state.Skipped,
		))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if s.added > 0 && state.QuestionIndex == 0 {
		b.WriteString(theme.Centered(theme.Hint, width, fmt.Sprintf("%d new questions were added to this topic.", s.added)))
		b.WriteString("\n\n")
	}

	prompt := lipgloss.NewStyle().
		Width(tw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	input := theme.Card.Width(tw).Render(s.input.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, input))
	b.WriteString("\n")

	if s.warning != "" {
		b.WriteString(theme.Centered(theme.ErrorText, width, s.warning))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bar := components.NewProgressBar("", state.QuestionIndex, total, tw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	return b.String()
}

// renderFeedback shows how the last answer went.
func (s *SessionScreen) renderFeedback(width, height int) string {
	out := s.feedback
	tw := layout.TextWidth(width)

	var headline string
	var body string
	switch {
	case out.Feedback == nil:
		headline = theme.Skipped.Render("Skipped.")
		body = "Answers: " + strings.Join(out.Question.Answers, ", ")
	default:
		// The first line of the feedback is the verdict, styled here.
		verdict, rest, _ := strings.Cut(out.Feedback.String(), "\n")
		headline = theme.Incorrect.Render(verdict)
		if out.Feedback.Correct {
			headline = theme.Correct.Render(verdict)
		}
		body = rest
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, headline))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(tw).Foreground(theme.TextDim).Render(out.Question.Prompt)))
	b.WriteString("\n\n")
	if body != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(tw).Foreground(theme.Text).Render(body)))
		b.WriteString("\n\n")
	}
	if s.warning != "" {
		b.WriteString(theme.Centered(theme.ErrorText, width, s.warning))
		b.WriteString("\n\n")
	}

	next := "Press any key for the next question"
	if out.Done {
		next = "Press any key to see your score"
	}
	b.WriteString(theme.Centered(theme.Hint, width, next))
	return b.String()
}

// renderQuitConfirm renders the leave confirmation.
func renderQuitConfirm(width, height int) string {
	box := theme.Card.
		BorderForeground(theme.Accent).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			theme.Body.Bold(true).Render("Leave this round?"),
			"",
			theme.Hint.Render("Your answers so far are saved and the round can be resumed."),
			"",
			theme.Body.Render("(y) leave   (n) keep going"),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderError renders an error the round cannot continue past.
func renderError(width, height int, msg string, retry bool) string {
	hint := "Press Esc to go back."
	if retry {
		hint = "Press Enter to try again, or Esc to leave. Your answers are kept."
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.ErrorText.Render(msg),
		"",
		theme.Hint.Render(hint),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
