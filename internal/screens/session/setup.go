package session

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	sess "github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

type setupField int

const (
	fieldTopic setupField = iota
	fieldPolicy
	fieldCount
	fieldDifficulty
	numFields
)

var (
	policies     = []sess.Mode{sess.ModeMix, sess.ModeNew, sess.ModeExisting}
	difficulties = []bank.Difficulty{bank.Easy, bank.Intermediate, bank.Advanced, bank.Expert}
)

// Prefill seeds the setup form, for replays and topics picked from a list.
type Prefill struct {
	Topic      string
	Difficulty bank.Difficulty
}

// SetupScreen asks for the topic and round settings, then sets the round up.
type SetupScreen struct {
	deps screen.Deps

	focus      setupField
	topic      components.TextInput
	count      components.TextInput
	policy     int
	difficulty int

	loading bool
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// NewSetup creates a SetupScreen with the configured defaults.
func NewSetup(deps screen.Deps, pre Prefill) *SetupScreen {
	s := &SetupScreen{
		deps:  deps,
		topic: components.NewTextInput("e.g. Dogs, the French Revolution", false, 200),
		count: components.NewTextInput("5", true, 3),
	}
	s.topic.SetValue(pre.Topic)

	count := deps.Defaults.Count
	if count <= 0 {
		count = quiz.DefaultCount
	}
	s.count.SetValue(strconv.Itoa(count))
	s.count.Blur()

	mode := sess.Mode(deps.Defaults.Policy)
	if !deps.Quiz.CanGenerate() {
		mode = sess.ModeExisting
	}
	s.policy = max(slices.Index(policies, mode), 0)

	d := pre.Difficulty
	if d == "" {
		d = bank.ParseDifficulty(deps.Defaults.Difficulty)
	}
	s.difficulty = max(slices.Index(difficulties, d), 0)

	if pre.Topic != "" {
		s.focusOn(fieldPolicy)
	}
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	if s.focus == fieldTopic {
		return s.topic.Focus()
	}
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Round"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
	}
	if s.focus == fieldPolicy || s.focus == fieldDifficulty {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Next / Start"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// Config returns the round settings as currently entered.
func (s *SetupScreen) Config() quiz.RoundConfig {
	count, _ := s.count.NumericValue()
	return quiz.RoundConfig{
		Topic:      strings.TrimSpace(s.topic.Value()),
		Policy:     policies[s.policy],
		Count:      count,
		NewCount:   s.deps.Defaults.NewCount,
		Difficulty: difficulties[s.difficulty],
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roundReadyMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = quiz.UserMessage(msg.Err)
			return s, nil
		}
		play := New(s.deps, msg.Round.Session)
		play.added = len(msg.Round.Added)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: play} }

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "shift+tab":
			return s, s.focusOn((s.focus + numFields - 1) % numFields)
		case "down", "tab":
			return s, s.focusOn((s.focus + 1) % numFields)
		case "enter":
			if s.focus == fieldTopic && strings.TrimSpace(s.topic.Value()) == "" {
				s.errMsg = "Enter a topic first."
				return s, nil
			}
			if s.focus < fieldDifficulty {
				return s, s.focusOn(s.focus + 1)
			}
			return s, s.submit()
		case "left", "right":
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			switch s.focus {
			case fieldPolicy:
				if s.deps.Quiz.CanGenerate() {
					s.policy = (s.policy + step + len(policies)) % len(policies)
				}
				return s, nil
			case fieldDifficulty:
				s.difficulty = (s.difficulty + step + len(difficulties)) % len(difficulties)
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) focusOn(f setupField) tea.Cmd {
	s.focus = f
	s.topic.Blur()
	s.count.Blur()
	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldCount:
		return s.count.Focus()
	}
	return nil
}

// submit sets the round up in the background; generation can take a while.
func (s *SetupScreen) submit() tea.Cmd {
	cfg := s.Config()
	if err := cfg.Validate(); err != nil {
		s.errMsg = quiz.UserMessage(err)
		return nil
	}
	s.loading = true
	s.errMsg = ""
	o := s.deps.Quiz
	return func() tea.Msg {
		round, err := o.StartNewTopicRound(context.Background(), cfg)
		return roundReadyMsg{Round: round, Err: err}
	}
}

func (s *SetupScreen) View(width, height int) string {
	if s.loading {
		text := "\n\n  Setting up your round..."
		if policies[s.policy] != sess.ModeExisting && s.deps.Quiz.CanGenerate() {
			text = "\n\n  Generating questions about " + s.Config().Topic + "..."
		}
		return theme.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width, text)
	}

	tw := layout.TextWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "What do you want to be quizzed on?"))
	b.WriteString("\n\n")

	rows := []string{
		s.row(fieldTopic, "Topic", s.topic.View()),
		s.row(fieldPolicy, "Questions", s.choice(string(policies[s.policy]), policyHint(policies[s.policy]))),
		s.row(fieldCount, "How many", s.count.View()),
		s.row(fieldDifficulty, "Difficulty", s.choice(difficulties[s.difficulty].String(), "")),
	}
	form := theme.Card.Width(tw).Render(strings.Join(rows, "\n\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, form))
	b.WriteString("\n\n")

	if !s.deps.Quiz.CanGenerate() {
		b.WriteString(theme.Centered(theme.Hint, width, "Question generation is off, so only stored questions can be played."))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.Centered(theme.ErrorText, width, s.errMsg))
	}
	return b.String()
}

func (s *SetupScreen) row(f setupField, label, value string) string {
	style := theme.Unselected
	marker := "  "
	if s.focus == f {
		style = theme.Selected
		marker = "> "
	}
	return style.Render(fmt.Sprintf("%s%-11s", marker, label)) + value
}

func (s *SetupScreen) choice(value, hint string) string {
	out := "< " + value + " >"
	if hint != "" {
		out += "  " + theme.Hint.Render(hint)
	}
	return out
}

func policyHint(m sess.Mode) string {
	switch m {
	case sess.ModeNew:
		return "freshly generated"
	case sess.ModeExisting:
		return "from the stored bank"
	default:
		return "some of each"
	}
}
