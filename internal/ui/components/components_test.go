package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pickedMsg int

func testMenu() Menu {
	pick := func(n int) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return pickedMsg(n) } }
	}
	return NewMenu([]MenuItem{
		{Label: "New round", Action: pick(1)},
		{Label: "Resume", Disabled: true},
		{Label: "Topics", Action: pick(3), Hint: "2 topics"},
	})
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := testMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", m.Selected)
	}
}

func TestMenu_Enter(t *testing.T) {
	m := testMenu()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if got := cmd(); got != pickedMsg(1) {
		t.Errorf("picked %v, want 1", got)
	}
}

func TestMenu_NumberKeys(t *testing.T) {
	m := testMenu()

	m, cmd := m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if cmd == nil || cmd() != pickedMsg(3) {
		t.Error("expected '3' to pick the third item")
	}
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}

	if _, cmd := m.Update(tea.KeyPressMsg{Code: '2', Text: "2"}); cmd != nil {
		t.Error("disabled item must not be picked")
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: '9', Text: "9"}); cmd != nil {
		t.Error("out of range number must be ignored")
	}
}

func TestMenu_View(t *testing.T) {
	view := testMenu().View()
	for _, want := range []string{"1. New round", "2. Resume", "3. Topics", "2 topics"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("Round", 2, 4, 40)
	if p.Fraction() != 0.5 {
		t.Errorf("Fraction = %v, want 0.5", p.Fraction())
	}
	if !strings.Contains(p.View(), "2/4") {
		t.Errorf("view missing counter: %q", p.View())
	}
	if NewProgressBar("", 1, 0, 10).Fraction() != 0 {
		t.Error("empty round should be 0")
	}
}

func TestTextInput_NumericOnly(t *testing.T) {
	ti := NewTextInput("count", true, 3)
	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	ti, _ = ti.Update(tea.KeyPressMsg{Code: '7', Text: "7"})
	if ti.Value() != "7" {
		t.Errorf("Value = %q, want 7", ti.Value())
	}
	n, err := ti.NumericValue()
	if err != nil || n != 7 {
		t.Errorf("NumericValue = %d, %v", n, err)
	}
}
