package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/quiz/quiztest"
	"github.com/abhisek/quizgen/internal/screen"
)

func TestAppModel_View(t *testing.T) {
	m := newAppModel(screen.Deps{Quiz: quiztest.New(t, nil)})

	v := m.View()
	assert.True(t, v.AltScreen)

	assert.Empty(t, m.render())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")

	updated, _ = updated.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	content := updated.(AppModel).render()
	assert.Contains(t, content, "quizgen")
	assert.Contains(t, content, "New round")
}

func TestAppModel_CtrlC(t *testing.T) {
	m := newAppModel(screen.Deps{Quiz: quiztest.New(t, nil)})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestAppModel_EscOnRootStays(t *testing.T) {
	m := newAppModel(screen.Deps{Quiz: quiztest.New(t, nil)})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
}
