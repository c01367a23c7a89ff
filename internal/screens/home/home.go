package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/history"
	sessionscreen "github.com/abhisek/quizgen/internal/screens/session"
	"github.com/abhisek/quizgen/internal/screens/topics"
	sess "github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

type homeLoadedMsg struct {
	Aggregate  sess.Aggregate
	Topics     int
	Unfinished []*sess.QuizSession
	Err        error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps       screen.Deps
	menu       components.Menu
	aggregate  sess.Aggregate
	topics     int
	unfinished []*sess.QuizSession
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	deps := h.deps
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	resume := components.MenuItem{Label: "Resume round", Disabled: true}
	if len(h.unfinished) > 0 {
		last := h.unfinished[0]
		resume.Disabled = false
		resume.Hint = fmt.Sprintf("%s, question %d of %d", last.Title, last.QuestionIndex+1, len(last.Questions))
		resume.Action = push(func() screen.Screen { return sessionscreen.New(deps, last) })
	}

	topicsItem := components.MenuItem{
		Label:  "Topics",
		Action: push(func() screen.Screen { return topics.New(deps) }),
	}
	if h.topics > 0 {
		topicsItem.Hint = fmt.Sprintf("%d stored", h.topics)
	}

	return []components.MenuItem{
		{Label: "New round", Action: push(func() screen.Screen {
			return sessionscreen.NewSetup(deps, sessionscreen.Prefill{})
		})},
		resume,
		topicsItem,
		{Label: "History", Action: push(func() screen.Screen { return history.New(deps) })},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Refresh reloads the scores when a round or another screen is closed.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	o := h.deps.Quiz
	return func() tea.Msg {
		ctx := context.Background()
		agg, err := o.StoredHistory(ctx, "")
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		banks, err := o.ListTopics(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		open, err := o.Unfinished(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		return homeLoadedMsg{Aggregate: agg, Topics: len(banks), Unfinished: open}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(homeLoadedMsg); ok {
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.aggregate = msg.Aggregate
		h.topics = msg.Topics
		h.unfinished = msg.Unfinished

		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// Overall is the line summarising every finished round.
func (h *HomeScreen) Overall() string {
	if h.aggregate.TotalAnswered == 0 {
		return "No rounds played yet."
	}
	return fmt.Sprintf("Overall, you answered %s.", h.aggregate.Text())
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Centered(theme.Title, width, "quizgen"),
		theme.Centered(theme.Subtitle, width, "Quiz yourself on any topic."),
	)

	switch {
	case h.errMsg != "":
		sections = append(sections, theme.Centered(theme.ErrorText, width, "Could not load your scores: "+h.errMsg))
	case h.loaded:
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if h.aggregate.TotalAnswered > 0 {
			style = theme.RateColor(h.aggregate.OverallPercentage)
		}
		sections = append(sections, theme.Centered(style, width, h.Overall()))
	}

	if !h.deps.Quiz.CanGenerate() {
		sections = append(sections, theme.Centered(theme.Hint, width,
			"No LLM provider is configured: rounds use stored questions only."))
	}

	menu := theme.Card.Width(min(layout.TextWidth(width), 50)).Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))

	return "\n" + strings.Join(sections, "\n\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
